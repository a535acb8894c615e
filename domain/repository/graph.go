package repository

import (
	"context"

	"meta-ads-setup/domain/dto"
	"meta-ads-setup/domain/model"
)

// IGraph is the Graph API surface the wizard needs. Implementations build
// signed requests and parse responses; they do not retry, throttle, or page.
type IGraph interface {
	// AuthCodeURL builds the authorization dialog URL for the given CSRF state.
	AuthCodeURL(creds model.Credentials, state string) string
	// ExchangeCode trades an authorization code for a user access token.
	ExchangeCode(ctx context.Context, creds model.Credentials, code string) (string, error)

	GetAdAccounts(ctx context.Context, creds model.Credentials) ([]dto.AdAccountEntry, error)
	GetBusinesses(ctx context.Context, creds model.Credentials) ([]dto.BusinessEntry, error)
	GetOwnedAdAccounts(ctx context.Context, creds model.Credentials, businessID string) ([]dto.AdAccountEntry, error)
	GetCampaigns(ctx context.Context, creds model.Credentials, accountID string) ([]dto.CampaignEntry, error)
	GetInsights(ctx context.Context, creds model.Credentials, accountID, datePreset string) ([]dto.InsightRow, error)
}
