package model

import "strings"

// SandboxAccountStatus is the reserved account_status value Meta assigns to
// sandbox ad accounts.
const SandboxAccountStatus = 999

// Provenance labels for discovered ad accounts.
const (
	SourcePersonal = "Personal Account"
	SourceBusiness = "Business Portfolio"
	SourceSandbox  = "Sandbox Account"
)

type AdAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
	Currency      string `json:"currency"`
	Source        string `json:"source"`
	BusinessID    string `json:"business_id,omitempty"`
	BusinessName  string `json:"business_name,omitempty"`
}

// CleanID strips the act_ prefix so the numeric account id can be stored in
// the generated credentials file.
func (a AdAccount) CleanID() string {
	return strings.TrimPrefix(a.ID, "act_")
}

type Business struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
