package model

import "time"

// WizardStep identifies where a session is in the setup flow.
type WizardStep string

const (
	StepAwaitingCredentials   WizardStep = "awaiting_credentials"
	StepAwaitingAuthorization WizardStep = "awaiting_authorization"
	StepExchangingCode        WizardStep = "exchanging_code"
	StepAccountsReady         WizardStep = "accounts_ready"
	StepComplete              WizardStep = "complete"
	StepFailed                WizardStep = "failed"
)

// Credentials is the app/token triple every Graph call is signed with.
type Credentials struct {
	AppID       string `json:"app_id"`
	AppSecret   string `json:"app_secret"`
	AccessToken string `json:"access_token"`
}

// Session is the durable wizard state. The whole struct is written in one
// store operation so a resumed session never observes a half-applied
// transition.
type Session struct {
	ID            string      `json:"id"`
	Step          WizardStep  `json:"step"`
	AppID         string      `json:"app_id"`
	AppSecret     string      `json:"app_secret"`
	AccessToken   string      `json:"access_token"`
	OAuthState    string      `json:"oauth_state"`
	ProcessedCode string      `json:"processed_code"`
	AdAccounts    []AdAccount `json:"ad_accounts"`
	LastError     string      `json:"last_error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Step:      StepAwaitingCredentials,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Credentials returns the signing material for Graph API calls.
func (s *Session) Credentials() Credentials {
	return Credentials{AppID: s.AppID, AppSecret: s.AppSecret, AccessToken: s.AccessToken}
}

// Clear wipes every field set after session creation and returns the session
// to the initial step. Used by the user-invoked reset.
func (s *Session) Clear() {
	s.Step = StepAwaitingCredentials
	s.AppID = ""
	s.AppSecret = ""
	s.AccessToken = ""
	s.OAuthState = ""
	s.ProcessedCode = ""
	s.AdAccounts = nil
	s.LastError = ""
	s.UpdatedAt = time.Now().UTC()
}
