package dto

import "meta-ads-setup/domain/model"

type CredentialsRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

type StatusResponse struct {
	Step         model.WizardStep `json:"step"`
	Error        string           `json:"error,omitempty"`
	AccountCount int              `json:"account_count"`
}

type ExtractionResult struct {
	Records []model.CampaignRecord  `json:"records"`
	Summary model.ExtractionSummary `json:"summary"`
}
