package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"meta-ads-setup/domain/dto"
	"meta-ads-setup/domain/model"
	"meta-ads-setup/domain/repository"
	"meta-ads-setup/infrastructure/filecsv"
	"meta-ads-setup/infrastructure/logger"
	"meta-ads-setup/infrastructure/utils"
)

var ErrInvalidDatePreset = errors.New("invalid date preset")

// DatePresets is the fixed set of relative windows the insights report
// accepts.
var DatePresets = []string{
	"today",
	"yesterday",
	"last_3d",
	"this_week",
	"last_week",
	"last_7d",
	"last_14d",
	"last_30d",
	"this_month",
	"last_month",
	"last_90d",
}

func IsValidDatePreset(preset string) bool {
	for _, p := range DatePresets {
		if p == preset {
			return true
		}
	}
	return false
}

type ICampaignUsecase interface {
	Extract(ctx context.Context, sessionID, accountID, datePreset string) (*dto.ExtractionResult, error)
	ExportCSV(ctx context.Context, sessionID, accountID, datePreset string) ([]byte, string, error)
}

type campaignUsecase struct {
	store repository.ISessionStore
	graph repository.IGraph
}

func NewCampaignUsecase(store repository.ISessionStore, graph repository.IGraph) ICampaignUsecase {
	return &campaignUsecase{store: store, graph: graph}
}

// Extract runs the two-phase fetch: campaign metadata first, then the
// account-level insights report merged in by campaign id. A campaign with no
// insight row keeps zeroed metrics. Insights failure is non-fatal; the
// campaign list failing is.
func (u *campaignUsecase) Extract(ctx context.Context, sessionID, accountID, datePreset string) (*dto.ExtractionResult, error) {
	session, err := u.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, ErrNotAuthorized
	}
	if !IsValidDatePreset(datePreset) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDatePreset, datePreset)
	}
	creds := session.Credentials()
	cleanID := strings.TrimPrefix(accountID, "act_")

	entries, err := u.graph.GetCampaigns(ctx, creds, cleanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	extractedAt := utils.GetCurrentTime().Format("2006-01-02T15:04:05Z07:00")
	records := make([]model.CampaignRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, model.CampaignRecord{
			ID:              e.ID,
			Name:            e.Name,
			Objective:       e.Objective,
			Status:          e.Status,
			CreatedTime:     e.CreatedTime,
			UpdatedTime:     e.UpdatedTime,
			StartTime:       e.StartTime,
			StopTime:        e.StopTime,
			DailyBudget:     e.DailyBudget,
			LifetimeBudget:  e.LifetimeBudget,
			BudgetRemaining: e.BudgetRemaining,
			AccountID:       "act_" + cleanID,
			ExtractedAt:     extractedAt,
			DatePreset:      datePreset,
			ParsedActions:   map[string]float64{},
		})
	}

	if len(records) > 0 {
		insights, err := u.graph.GetInsights(ctx, creds, cleanID, datePreset)
		if err != nil {
			// Normal for paused or never-run campaigns; metadata-only records
			// are still useful.
			logger.GetLogger().WithField("error", err).Warn("Could not fetch insights")
		} else {
			mergeInsights(records, insights)
		}
	}

	return &dto.ExtractionResult{
		Records: records,
		Summary: model.Summarize(records),
	}, nil
}

// ExportCSV renders the extraction as a downloadable CSV.
func (u *campaignUsecase) ExportCSV(ctx context.Context, sessionID, accountID, datePreset string) ([]byte, string, error) {
	result, err := u.Extract(ctx, sessionID, accountID, datePreset)
	if err != nil {
		return nil, "", err
	}
	content, err := filecsv.WriteCampaigns(result.Records)
	if err != nil {
		return nil, "", err
	}
	return content, filecsv.Filename(datePreset, utils.GetCurrentTime()), nil
}

// mergeInsights overwrites each matched record's metrics with its insight row.
func mergeInsights(records []model.CampaignRecord, insights []dto.InsightRow) {
	byCampaign := make(map[string]dto.InsightRow, len(insights))
	for _, row := range insights {
		if row.CampaignID != "" {
			byCampaign[row.CampaignID] = row
		}
	}
	for i := range records {
		row, ok := byCampaign[records[i].ID]
		if !ok {
			continue
		}
		records[i].Impressions = parseInt(row.Impressions)
		records[i].Reach = parseInt(row.Reach)
		records[i].Clicks = parseInt(row.Clicks)
		records[i].CPC = parseFloat(row.CPC)
		records[i].CPM = parseFloat(row.CPM)
		records[i].CTR = parseFloat(row.CTR)
		records[i].Spend = parseFloat(row.Spend)
		if len(row.Actions) > 0 {
			records[i].ParsedActions = parseActions(row.Actions)
		}
	}
}

// parseActions flattens the free-form actions list into a type→value map.
// Duplicate action types overwrite, keeping the last value seen.
func parseActions(actions []dto.ActionEntry) map[string]float64 {
	parsed := make(map[string]float64, len(actions))
	for _, a := range actions {
		actionType := a.ActionType
		if actionType == "" {
			actionType = "unknown"
		}
		parsed[actionType] = parseFloat(a.Value)
	}
	return parsed
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
