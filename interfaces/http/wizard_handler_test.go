package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meta-ads-setup/domain/model"
	httpHandler "meta-ads-setup/interfaces/http"
	"meta-ads-setup/usecase"
)

// Mock implementations
type MockWizardUsecase struct {
	mock.Mock
}

func (m *MockWizardUsecase) SubmitCredentials(ctx context.Context, sessionID, appID, appSecret string) (*model.Session, error) {
	args := m.Called(ctx, sessionID, appID, appSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockWizardUsecase) BeginAuthorization(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockWizardUsecase) HandleCallback(ctx context.Context, sessionID, code, state, errParam string) (*model.Session, error) {
	args := m.Called(ctx, sessionID, code, state, errParam)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockWizardUsecase) Status(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockWizardUsecase) Accounts(ctx context.Context, sessionID string) ([]model.AdAccount, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AdAccount), args.Error(1)
}

func (m *MockWizardUsecase) SelectAccount(ctx context.Context, sessionID, accountID string) (string, error) {
	args := m.Called(ctx, sessionID, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockWizardUsecase) Reset(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func newWizardRouter(wizard usecase.IWizardUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := httpHandler.NewWizardHandler(wizard)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("session_id", "s1")
		c.Next()
	})
	router.POST("/api/wizard/credentials", handler.SubmitCredentials)
	router.POST("/api/wizard/authorize", handler.Authorize)
	router.GET("/oauth-callback", handler.Callback)
	router.GET("/api/wizard/status", handler.Status)
	router.GET("/api/wizard/accounts", handler.Accounts)
	router.GET("/api/wizard/accounts/:accountId/env", handler.DownloadEnv)
	router.POST("/api/wizard/reset", handler.Reset)
	return router
}

func TestWizardHandler_SubmitCredentials_InvalidBody(t *testing.T) {
	mockWizard := new(MockWizardUsecase)
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/credentials", strings.NewReader("not-json"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockWizard.AssertNotCalled(t, "SubmitCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWizardHandler_SubmitCredentials_MissingFields(t *testing.T) {
	mockWizard := new(MockWizardUsecase)
	mockWizard.On("SubmitCredentials", mock.Anything, "s1", "123", "").
		Return(nil, usecase.ErrMissingCredentials).
		Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/credentials", strings.NewReader(`{"app_id":"123","app_secret":""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter both App ID and App Secret")
	mockWizard.AssertExpectations(t)
}

func TestWizardHandler_SubmitCredentials_OK(t *testing.T) {
	session := model.NewSession("s1")
	session.Step = model.StepAwaitingAuthorization

	mockWizard := new(MockWizardUsecase)
	mockWizard.On("SubmitCredentials", mock.Anything, "s1", "123", "abc").
		Return(session, nil).
		Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/credentials", strings.NewReader(`{"app_id":"123","app_secret":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "awaiting_authorization")
	mockWizard.AssertExpectations(t)
}

func TestWizardHandler_Authorize(t *testing.T) {
	mockWizard := new(MockWizardUsecase)
	mockWizard.On("BeginAuthorization", mock.Anything, "s1").
		Return("https://www.facebook.com/v18.0/dialog/oauth?state=abc", nil).
		Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/authorize", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://www.facebook.com/v18.0/dialog/oauth?state=abc", body["auth_url"])
}

func TestWizardHandler_Callback_StateMismatch(t *testing.T) {
	session := model.NewSession("s1")
	session.Step = model.StepFailed

	mockWizard := new(MockWizardUsecase)
	mockWizard.On("HandleCallback", mock.Anything, "s1", "XYZ", "forged", "").
		Return(session, usecase.ErrStateMismatch).
		Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oauth-callback?code=XYZ&state=forged", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "state mismatch")
}

func TestWizardHandler_Status(t *testing.T) {
	session := model.NewSession("s1")
	session.Step = model.StepAccountsReady
	session.AdAccounts = []model.AdAccount{{ID: "act_999"}}

	mockWizard := new(MockWizardUsecase)
	mockWizard.On("Status", mock.Anything, "s1").Return(session, nil).Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/wizard/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "accounts_ready", body["step"])
	assert.Equal(t, float64(1), body["account_count"])
}

func TestWizardHandler_Accounts_NotAuthorized(t *testing.T) {
	mockWizard := new(MockWizardUsecase)
	mockWizard.On("Accounts", mock.Anything, "s1").
		Return(nil, usecase.ErrNotAuthorized).
		Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/wizard/accounts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWizardHandler_DownloadEnv(t *testing.T) {
	mockWizard := new(MockWizardUsecase)
	mockWizard.On("SelectAccount", mock.Anything, "s1", "act_999").
		Return("META_APP_ID=123\nMETA_APP_SECRET=abc\nMETA_ACCESS_TOKEN=T\nMETA_AD_ACCOUNT_ID=999", nil).
		Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/wizard/accounts/act_999/env", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=".env"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "META_AD_ACCOUNT_ID=999")
}

func TestWizardHandler_DownloadEnv_NotFound(t *testing.T) {
	mockWizard := new(MockWizardUsecase)
	mockWizard.On("SelectAccount", mock.Anything, "s1", "act_404").
		Return("", usecase.ErrAccountNotFound).
		Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/wizard/accounts/act_404/env", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizardHandler_Reset(t *testing.T) {
	mockWizard := new(MockWizardUsecase)
	mockWizard.On("Reset", mock.Anything, "s1").Return(nil).Once()
	router := newWizardRouter(mockWizard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wizard/reset", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockWizard.AssertExpectations(t)
}
