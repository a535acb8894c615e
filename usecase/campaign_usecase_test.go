package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meta-ads-setup/domain/dto"
	"meta-ads-setup/domain/model"
	"meta-ads-setup/infrastructure/persistence"
	"meta-ads-setup/usecase"
)

// seedAuthorizedSession writes a session that already holds a token, as if the
// OAuth flow had completed.
func seedAuthorizedSession(t *testing.T, store *persistence.MemorySessionStore, sessionID string) {
	t.Helper()
	session := model.NewSession(sessionID)
	session.Step = model.StepAccountsReady
	session.AppID = "123"
	session.AppSecret = "abc"
	session.AccessToken = "T"
	require.NoError(t, store.Save(context.Background(), session))
}

func TestCampaignUsecase_Extract_RequiresAuthorization(t *testing.T) {
	store := persistence.NewMemorySessionStore()
	mockGraph := new(MockGraph)
	campaigns := usecase.NewCampaignUsecase(store, mockGraph)

	// Unknown session.
	_, err := campaigns.Extract(context.Background(), "nobody", "act_777", "last_30d")
	assert.ErrorIs(t, err, usecase.ErrNotAuthorized)

	// Known session without a token.
	session := model.NewSession("s1")
	require.NoError(t, store.Save(context.Background(), session))
	_, err = campaigns.Extract(context.Background(), "s1", "act_777", "last_30d")
	assert.ErrorIs(t, err, usecase.ErrNotAuthorized)
}

func TestCampaignUsecase_Extract_InvalidDatePreset(t *testing.T) {
	store := persistence.NewMemorySessionStore()
	seedAuthorizedSession(t, store, "s1")
	mockGraph := new(MockGraph)
	campaigns := usecase.NewCampaignUsecase(store, mockGraph)

	_, err := campaigns.Extract(context.Background(), "s1", "act_777", "last_365d")
	assert.ErrorIs(t, err, usecase.ErrInvalidDatePreset)
	mockGraph.AssertNotCalled(t, "GetCampaigns", mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignUsecase_Extract_MergesInsights(t *testing.T) {
	store := persistence.NewMemorySessionStore()
	seedAuthorizedSession(t, store, "s1")

	mockGraph := new(MockGraph)
	mockGraph.On("GetCampaigns", mock.Anything, mock.Anything, "777").
		Return([]dto.CampaignEntry{
			{ID: "c1", Name: "Spring Sale", Objective: "OUTCOME_SALES", Status: "ACTIVE"},
			{ID: "c2", Name: "Paused Test", Objective: "OUTCOME_TRAFFIC", Status: "PAUSED"},
		}, nil)
	mockGraph.On("GetInsights", mock.Anything, mock.Anything, "777", "last_7d").
		Return([]dto.InsightRow{
			{
				CampaignID:  "c1",
				Impressions: "1500",
				Reach:       "1200",
				Clicks:      "45",
				CPC:         "0.52",
				CPM:         "12.4",
				CTR:         "3.0",
				Spend:       "23.4",
				Actions: []dto.ActionEntry{
					{ActionType: "link_click", Value: "2"},
					{ActionType: "", Value: "7"},
					// Duplicate type keeps the last value.
					{ActionType: "link_click", Value: "5"},
				},
			},
		}, nil)

	campaigns := usecase.NewCampaignUsecase(store, mockGraph)
	result, err := campaigns.Extract(context.Background(), "s1", "act_777", "last_7d")
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	merged := result.Records[0]
	assert.Equal(t, "c1", merged.ID)
	assert.Equal(t, int64(1500), merged.Impressions)
	assert.Equal(t, int64(1200), merged.Reach)
	assert.Equal(t, int64(45), merged.Clicks)
	assert.InDelta(t, 0.52, merged.CPC, 1e-9)
	assert.InDelta(t, 23.4, merged.Spend, 1e-9)
	assert.Equal(t, map[string]float64{"link_click": 5, "unknown": 7}, merged.ParsedActions)
	assert.Equal(t, "act_777", merged.AccountID)
	assert.Equal(t, "last_7d", merged.DatePreset)

	// Campaign with no insight row keeps zeroed metrics.
	bare := result.Records[1]
	assert.Equal(t, "c2", bare.ID)
	assert.Zero(t, bare.Impressions)
	assert.Zero(t, bare.Spend)
	assert.NotNil(t, bare.ParsedActions)
	assert.Empty(t, bare.ParsedActions)

	assert.Equal(t, 2, result.Summary.TotalCampaigns)
	assert.InDelta(t, 23.4, result.Summary.TotalSpend, 1e-9)
	assert.Equal(t, int64(1500), result.Summary.TotalImpressions)
	assert.Equal(t, int64(45), result.Summary.TotalClicks)
	mockGraph.AssertExpectations(t)
}

func TestCampaignUsecase_Extract_InsightsFailureIsNonFatal(t *testing.T) {
	store := persistence.NewMemorySessionStore()
	seedAuthorizedSession(t, store, "s1")

	mockGraph := new(MockGraph)
	mockGraph.On("GetCampaigns", mock.Anything, mock.Anything, "777").
		Return([]dto.CampaignEntry{{ID: "c1", Name: "Spring Sale", Status: "ACTIVE"}}, nil)
	mockGraph.On("GetInsights", mock.Anything, mock.Anything, "777", "last_30d").
		Return(nil, assert.AnError)

	campaigns := usecase.NewCampaignUsecase(store, mockGraph)
	result, err := campaigns.Extract(context.Background(), "s1", "act_777", "last_30d")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Zero(t, result.Records[0].Impressions)
}

func TestCampaignUsecase_Extract_CampaignFailureIsFatal(t *testing.T) {
	store := persistence.NewMemorySessionStore()
	seedAuthorizedSession(t, store, "s1")

	mockGraph := new(MockGraph)
	mockGraph.On("GetCampaigns", mock.Anything, mock.Anything, "777").
		Return(nil, assert.AnError)

	campaigns := usecase.NewCampaignUsecase(store, mockGraph)
	_, err := campaigns.Extract(context.Background(), "s1", "act_777", "last_30d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch campaigns")
	mockGraph.AssertNotCalled(t, "GetInsights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignUsecase_Extract_NoCampaignsSkipsInsights(t *testing.T) {
	store := persistence.NewMemorySessionStore()
	seedAuthorizedSession(t, store, "s1")

	mockGraph := new(MockGraph)
	mockGraph.On("GetCampaigns", mock.Anything, mock.Anything, "777").
		Return([]dto.CampaignEntry{}, nil)

	campaigns := usecase.NewCampaignUsecase(store, mockGraph)
	result, err := campaigns.Extract(context.Background(), "s1", "act_777", "last_30d")
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Summary.TotalCampaigns)
	mockGraph.AssertNotCalled(t, "GetInsights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCampaignUsecase_ExportCSV(t *testing.T) {
	store := persistence.NewMemorySessionStore()
	seedAuthorizedSession(t, store, "s1")

	mockGraph := new(MockGraph)
	mockGraph.On("GetCampaigns", mock.Anything, mock.Anything, "777").
		Return([]dto.CampaignEntry{{ID: "c1", Name: "Sale, Spring", Status: "ACTIVE"}}, nil)
	mockGraph.On("GetInsights", mock.Anything, mock.Anything, "777", "last_30d").
		Return([]dto.InsightRow{}, nil)

	campaigns := usecase.NewCampaignUsecase(store, mockGraph)
	content, filename, err := campaigns.ExportCSV(context.Background(), "s1", "777", "last_30d")
	require.NoError(t, err)

	expected := "campaign_data_last_30d_" + time.Now().UTC().Format("2006-01-02") + ".csv"
	assert.Equal(t, expected, filename)

	rows, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id", rows[0][0])
	assert.NotContains(t, rows[0], "parsed_actions")
	// Comma-bearing name survives the round trip.
	assert.Equal(t, "Sale, Spring", rows[1][1])
}

func TestIsValidDatePreset(t *testing.T) {
	for _, preset := range usecase.DatePresets {
		assert.True(t, usecase.IsValidDatePreset(preset), preset)
	}
	assert.False(t, usecase.IsValidDatePreset(""))
	assert.False(t, usecase.IsValidDatePreset("lifetime"))
}
