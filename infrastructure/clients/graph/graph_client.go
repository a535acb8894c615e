package graph

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"meta-ads-setup/domain/dto"
	"meta-ads-setup/domain/model"
	"meta-ads-setup/domain/repository"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
)

// Scopes requested during authorization. Facebook expects the raw
// comma-separated list, so the whole set is a single oauth2 scope value.
const oauthScopes = "ads_management,ads_read,business_management"

const (
	adAccountFields = "id,name,account_status,currency"
	businessFields  = "id,name"
	campaignFields  = "id,name,objective,status,created_time,updated_time,start_time,stop_time,daily_budget,lifetime_budget,budget_remaining"
	insightFields   = "campaign_id,impressions,reach,clicks,cpc,cpm,ctr,spend,actions"
)

// APIError carries a non-2xx Graph response verbatim. Callers decide how to
// degrade; the client never retries.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api call failed: %d - %s", e.StatusCode, e.Body)
}

// Config represents Graph API client configuration.
type Config struct {
	Host        string // e.g. https://graph.facebook.com
	Version     string // e.g. v18.0
	AuthHost    string // e.g. https://www.facebook.com
	RedirectURI string
	HTTPClient  *http.Client
}

// Client is a pure request builder / response parser for the Meta Graph API.
type Client struct {
	httpClient  *http.Client
	host        string
	version     string
	authHost    string
	redirectURI string
}

// NewGraphClient creates a new Graph API client.
func NewGraphClient(cfg *Config) repository.IGraph {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:  httpClient,
		host:        strings.TrimSuffix(cfg.Host, "/"),
		version:     cfg.Version,
		authHost:    strings.TrimSuffix(cfg.AuthHost, "/"),
		redirectURI: cfg.RedirectURI,
	}
}

// AppSecretProof computes the keyed hash binding a call to its app/token pair.
// Required by the platform for confidential-client calls.
func AppSecretProof(accessToken, appSecret string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) oauth2Config(creds model.Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.AppID,
		ClientSecret: creds.AppSecret,
		RedirectURL:  c.redirectURI,
		Scopes:       []string{oauthScopes},
		Endpoint: oauth2.Endpoint{
			AuthURL:   fmt.Sprintf("%s/%s/dialog/oauth", c.authHost, c.version),
			TokenURL:  fmt.Sprintf("%s/%s/oauth/access_token", c.host, c.version),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (c *Client) AuthCodeURL(creds model.Credentials, state string) string {
	return c.oauth2Config(creds).AuthCodeURL(state)
}

func (c *Client) ExchangeCode(ctx context.Context, creds model.Credentials, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth2Config(creds).Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", &APIError{StatusCode: retrieveErr.Response.StatusCode, Body: string(retrieveErr.Body)}
		}
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	return token.AccessToken, nil
}

type fieldsParams struct {
	Fields string `url:"fields"`
}

type insightsParams struct {
	Fields     string `url:"fields"`
	DatePreset string `url:"date_preset"`
	Level      string `url:"level"`
	Limit      int    `url:"limit"`
}

// get performs a signed GET against {host}/{version}/{path} and decodes the
// JSON body into out.
func (c *Client) get(ctx context.Context, creds model.Credentials, path string, params interface{}, out interface{}) error {
	q := url.Values{}
	if params != nil {
		var err error
		q, err = query.Values(params)
		if err != nil {
			return err
		}
	}
	q.Set("access_token", creds.AccessToken)
	q.Set("appsecret_proof", AppSecretProof(creds.AccessToken, creds.AppSecret))

	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.host, c.version, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}

func (c *Client) GetAdAccounts(ctx context.Context, creds model.Credentials) ([]dto.AdAccountEntry, error) {
	var res dto.AdAccountList
	if err := c.get(ctx, creds, "me/adaccounts", fieldsParams{Fields: adAccountFields}, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) GetBusinesses(ctx context.Context, creds model.Credentials) ([]dto.BusinessEntry, error) {
	var res dto.BusinessList
	if err := c.get(ctx, creds, "me/businesses", fieldsParams{Fields: businessFields}, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) GetOwnedAdAccounts(ctx context.Context, creds model.Credentials, businessID string) ([]dto.AdAccountEntry, error) {
	var res dto.AdAccountList
	path := fmt.Sprintf("%s/owned_ad_accounts", businessID)
	if err := c.get(ctx, creds, path, fieldsParams{Fields: adAccountFields}, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) GetCampaigns(ctx context.Context, creds model.Credentials, accountID string) ([]dto.CampaignEntry, error) {
	var res dto.CampaignList
	path := fmt.Sprintf("act_%s/campaigns", strings.TrimPrefix(accountID, "act_"))
	if err := c.get(ctx, creds, path, fieldsParams{Fields: campaignFields}, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) GetInsights(ctx context.Context, creds model.Credentials, accountID, datePreset string) ([]dto.InsightRow, error) {
	var res dto.InsightList
	path := fmt.Sprintf("act_%s/insights", strings.TrimPrefix(accountID, "act_"))
	params := insightsParams{
		Fields:     insightFields,
		DatePreset: datePreset,
		Level:      "campaign",
		Limit:      1000,
	}
	if err := c.get(ctx, creds, path, params, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}
