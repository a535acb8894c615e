package http

import (
	"errors"
	"net/http"

	"meta-ads-setup/usecase"

	"github.com/gin-gonic/gin"
)

type ICampaignHandler interface {
	Extract(ctx *gin.Context)
	DownloadCSV(ctx *gin.Context)
}

type campaignHandler struct {
	campaigns usecase.ICampaignUsecase
}

func NewCampaignHandler(campaigns usecase.ICampaignUsecase) ICampaignHandler {
	return &campaignHandler{campaigns: campaigns}
}

func datePreset(c *gin.Context) string {
	preset := c.Query("date_preset")
	if preset == "" {
		preset = "last_30d"
	}
	return preset
}

// Extract handles GET /api/wizard/accounts/:accountId/campaigns
func (h *campaignHandler) Extract(c *gin.Context) {
	result, err := h.campaigns.Extract(c.Request.Context(), c.GetString("session_id"), c.Param("accountId"), datePreset(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DownloadCSV handles GET /api/wizard/accounts/:accountId/campaigns.csv
func (h *campaignHandler) DownloadCSV(c *gin.Context) {
	content, filename, err := h.campaigns.ExportCSV(c.Request.Context(), c.GetString("session_id"), c.Param("accountId"), datePreset(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", content)
}

func (h *campaignHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidDatePreset):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotAuthorized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
