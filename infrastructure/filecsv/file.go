package filecsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"meta-ads-setup/domain/model"
)

// campaignHeader mirrors the campaign record field order. The parsed action
// map is deliberately excluded from the export.
var campaignHeader = []string{
	"id",
	"name",
	"objective",
	"status",
	"created_time",
	"updated_time",
	"start_time",
	"stop_time",
	"daily_budget",
	"lifetime_budget",
	"budget_remaining",
	"account_id",
	"extracted_at",
	"date_preset",
	"impressions",
	"reach",
	"clicks",
	"cpc",
	"cpm",
	"ctr",
	"spend",
}

// CampaignHeader returns the export column order.
func CampaignHeader() []string {
	out := make([]string, len(campaignHeader))
	copy(out, campaignHeader)
	return out
}

// WriteCampaigns renders campaign records as CSV. Values containing a comma
// are double-quoted by the encoder, so names round-trip through any compliant
// reader.
func WriteCampaigns(records []model.CampaignRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(campaignHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.Name,
			r.Objective,
			r.Status,
			r.CreatedTime,
			r.UpdatedTime,
			r.StartTime,
			r.StopTime,
			r.DailyBudget,
			r.LifetimeBudget,
			r.BudgetRemaining,
			r.AccountID,
			r.ExtractedAt,
			r.DatePreset,
			strconv.FormatInt(r.Impressions, 10),
			strconv.FormatInt(r.Reach, 10),
			strconv.FormatInt(r.Clicks, 10),
			strconv.FormatFloat(r.CPC, 'f', -1, 64),
			strconv.FormatFloat(r.CPM, 'f', -1, 64),
			strconv.FormatFloat(r.CTR, 'f', -1, 64),
			strconv.FormatFloat(r.Spend, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename builds the download name, e.g. campaign_data_last_30d_2026-08-29.csv.
func Filename(datePreset string, now time.Time) string {
	return fmt.Sprintf("campaign_data_%s_%s.csv", datePreset, now.UTC().Format("2006-01-02"))
}
