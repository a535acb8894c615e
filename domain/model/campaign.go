package model

// CampaignRecord is one campaign with its static metadata and the performance
// metrics merged from the account-level insights report. Metrics stay zero for
// campaigns that never delivered; that is a valid state, not an error.
type CampaignRecord struct {
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
	AccountID       string `json:"account_id"`
	ExtractedAt     string `json:"extracted_at"`
	DatePreset      string `json:"date_preset"`

	Impressions int64   `json:"impressions"`
	Reach       int64   `json:"reach"`
	Clicks      int64   `json:"clicks"`
	CPC         float64 `json:"cpc"`
	CPM         float64 `json:"cpm"`
	CTR         float64 `json:"ctr"`
	Spend       float64 `json:"spend"`

	// ParsedActions maps action_type to its numeric value. Excluded from CSV
	// export.
	ParsedActions map[string]float64 `json:"parsed_actions"`
}

// ExtractionSummary aggregates the extracted records for the caller.
type ExtractionSummary struct {
	TotalCampaigns   int     `json:"total_campaigns"`
	TotalSpend       float64 `json:"total_spend"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
}

// Summarize computes the roll-up the account overview shows.
func Summarize(records []CampaignRecord) ExtractionSummary {
	s := ExtractionSummary{TotalCampaigns: len(records)}
	for _, r := range records {
		s.TotalSpend += r.Spend
		s.TotalImpressions += r.Impressions
		s.TotalClicks += r.Clicks
	}
	return s
}
