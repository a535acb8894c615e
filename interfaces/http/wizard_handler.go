package http

import (
	"errors"
	"net/http"

	"meta-ads-setup/domain/dto"
	"meta-ads-setup/usecase"

	"github.com/gin-gonic/gin"
)

type IWizardHandler interface {
	SubmitCredentials(ctx *gin.Context)
	Authorize(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Status(ctx *gin.Context)
	Accounts(ctx *gin.Context)
	DownloadEnv(ctx *gin.Context)
	Reset(ctx *gin.Context)
}

type wizardHandler struct {
	wizard usecase.IWizardUsecase
}

func NewWizardHandler(wizard usecase.IWizardUsecase) IWizardHandler {
	return &wizardHandler{wizard: wizard}
}

// SubmitCredentials handles POST /api/wizard/credentials
func (h *wizardHandler) SubmitCredentials(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	session, err := h.wizard.SubmitCredentials(c.Request.Context(), c.GetString("session_id"), req.AppID, req.AppSecret)
	if err != nil {
		if errors.Is(err, usecase.ErrMissingCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter both App ID and App Secret"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": session.Step})
}

// Authorize handles POST /api/wizard/authorize
func (h *wizardHandler) Authorize(c *gin.Context) {
	authURL, err := h.wizard.BeginAuthorization(c.Request.Context(), c.GetString("session_id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNoCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

// Callback handles GET /oauth-callback (the OAuth redirect target)
func (h *wizardHandler) Callback(c *gin.Context) {
	session, err := h.wizard.HandleCallback(
		c.Request.Context(),
		c.GetString("session_id"),
		c.Query("code"),
		c.Query("state"),
		c.Query("error"),
	)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, usecase.ErrStateMismatch) {
			status = http.StatusForbidden
		}
		payload := gin.H{"error": err.Error()}
		if session != nil {
			payload["step"] = session.Step
		}
		c.JSON(status, payload)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"step":          session.Step,
		"account_count": len(session.AdAccounts),
	})
}

// Status handles GET /api/wizard/status
func (h *wizardHandler) Status(c *gin.Context) {
	session, err := h.wizard.Status(c.Request.Context(), c.GetString("session_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{
		Step:         session.Step,
		Error:        session.LastError,
		AccountCount: len(session.AdAccounts),
	})
}

// Accounts handles GET /api/wizard/accounts
func (h *wizardHandler) Accounts(c *gin.Context) {
	accounts, err := h.wizard.Accounts(c.Request.Context(), c.GetString("session_id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotAuthorized) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// DownloadEnv handles GET /api/wizard/accounts/:accountId/env
func (h *wizardHandler) DownloadEnv(c *gin.Context) {
	content, err := h.wizard.SelectAccount(c.Request.Context(), c.GetString("session_id"), c.Param("accountId"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrNotAuthorized):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Header("Content-Disposition", `attachment; filename=".env"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// Reset handles POST /api/wizard/reset
func (h *wizardHandler) Reset(c *gin.Context) {
	if err := h.wizard.Reset(c.Request.Context(), c.GetString("session_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
