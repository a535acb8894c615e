package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomHex(t *testing.T) {
	a := RandomHex(16)
	b := RandomHex(16)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(map[string]interface{}{"sid": "s1"}, "secret")
	require.NoError(t, err)

	sid, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "s1", sid)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(map[string]interface{}{"sid": "s1"}, "secret")
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "another-secret")
	assert.Error(t, err)
}

func TestParseSessionToken_MissingClaim(t *testing.T) {
	token, err := GenerateToken(map[string]interface{}{"user": "someone"}, "secret")
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.Error(t, err)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	_, err := ParseSessionToken("not-a-token", "secret")
	assert.Error(t, err)
}
