package dto

// Wire types for Graph API responses. Insights numbers arrive as JSON strings
// and are parsed during the merge step.

type AdAccountEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
	Currency      string `json:"currency"`
}

type AdAccountList struct {
	Data []AdAccountEntry `json:"data"`
}

type BusinessEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BusinessList struct {
	Data []BusinessEntry `json:"data"`
}

type CampaignEntry struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Objective       string `json:"objective"`
	Status          string `json:"status"`
	CreatedTime     string `json:"created_time"`
	UpdatedTime     string `json:"updated_time"`
	StartTime       string `json:"start_time"`
	StopTime        string `json:"stop_time"`
	DailyBudget     string `json:"daily_budget"`
	LifetimeBudget  string `json:"lifetime_budget"`
	BudgetRemaining string `json:"budget_remaining"`
}

type CampaignList struct {
	Data []CampaignEntry `json:"data"`
}

type ActionEntry struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type InsightRow struct {
	CampaignID  string        `json:"campaign_id"`
	Impressions string        `json:"impressions"`
	Reach       string        `json:"reach"`
	Clicks      string        `json:"clicks"`
	CPC         string        `json:"cpc"`
	CPM         string        `json:"cpm"`
	CTR         string        `json:"ctr"`
	Spend       string        `json:"spend"`
	Actions     []ActionEntry `json:"actions"`
}

type InsightList struct {
	Data []InsightRow `json:"data"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
