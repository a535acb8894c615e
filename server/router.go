package server

import (
	"net/http"
	"time"

	httpHandler "meta-ads-setup/interfaces/http"
	"meta-ads-setup/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	wizardHandler httpHandler.IWizardHandler,
	campaignHandler httpHandler.ICampaignHandler,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:4200", "https://localhost:3000", "https://localhost:4200"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Session(secretKey))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// OAuth redirect target; the provider sends the browser here with
	// code/state/error query parameters.
	router.GET("/oauth-callback", wizardHandler.Callback)

	api := router.Group("api")
	wizard := api.Group("/wizard")
	{
		wizard.POST("/credentials", wizardHandler.SubmitCredentials)
		wizard.POST("/authorize", wizardHandler.Authorize)
		wizard.GET("/status", wizardHandler.Status)
		wizard.POST("/reset", wizardHandler.Reset)

		wizard.GET("/accounts", wizardHandler.Accounts)
		wizard.GET("/accounts/:accountId/env", wizardHandler.DownloadEnv)
		wizard.GET("/accounts/:accountId/campaigns", campaignHandler.Extract)
		wizard.GET("/accounts/:accountId/campaigns.csv", campaignHandler.DownloadCSV)
	}

	return router
}
