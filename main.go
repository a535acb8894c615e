package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meta-ads-setup/domain/repository"
	"meta-ads-setup/infrastructure/cache"
	graphclient "meta-ads-setup/infrastructure/clients/graph"
	"meta-ads-setup/infrastructure/configuration"
	"meta-ads-setup/infrastructure/logger"
	"meta-ads-setup/infrastructure/persistence"
	httpHandler "meta-ads-setup/interfaces/http"
	"meta-ads-setup/server"
	"meta-ads-setup/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	sessionStore := initiateSessionStore(ctx)

	graphClient := graphclient.NewGraphClient(&graphclient.Config{
		Host:        configuration.C.Graph.Host,
		Version:     configuration.C.Graph.Version,
		AuthHost:    configuration.C.OAuth.Meta.AuthHost,
		RedirectURI: configuration.C.OAuth.Meta.RedirectURI,
	})

	wizardUsecase := usecase.NewWizardUsecase(sessionStore, graphClient)
	campaignUsecase := usecase.NewCampaignUsecase(sessionStore, graphClient)

	wizardHandler := httpHandler.NewWizardHandler(wizardUsecase)
	campaignHandler := httpHandler.NewCampaignHandler(campaignUsecase)

	router := server.InitiateRouter(wizardHandler, campaignHandler, app.SecretKey)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateSessionStore picks the durable session backend: PostgreSQL when
// configured, otherwise Redis, otherwise process memory. The wizard works the
// same either way; only resume-after-restart durability differs.
func initiateSessionStore(ctx context.Context) repository.ISessionStore {
	backend := configuration.C.Session.Backend

	if backend == "" || backend == "postgres" {
		if configuration.C.Database.Psql.Host != "" {
			db, err := persistence.NewPostgreSQLDB()
			if err != nil {
				logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - trying next session backend")
			} else {
				if err := persistence.EnsureSessionSchema(db); err != nil {
					logger.GetLogger().WithField("error", err).Error("failed ensuring wizard session schema")
				}
				logger.GetLogger().Info("Session store: PostgreSQL")
				return persistence.NewSessionRepository(db)
			}
		} else if backend == "postgres" {
			logger.GetLogger().Warn("Session backend set to postgres but no database host configured")
		}
	}

	if backend == "" || backend == "redis" {
		if configuration.C.RedisClient.Host != "" {
			client, err := cache.NewCache(
				ctx,
				fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
				configuration.C.RedisClient.Username,
				configuration.C.RedisClient.Password,
			)
			if err != nil {
				logger.GetLogger().WithField("error", err).Warn("Redis not available - trying next session backend")
			} else {
				logger.GetLogger().Info("Session store: Redis")
				return cache.NewSessionCache(client)
			}
		} else if backend == "redis" {
			logger.GetLogger().Warn("Session backend set to redis but no redis host configured")
		}
	}

	logger.GetLogger().Info("Session store: in-memory (sessions will not survive a restart)")
	return persistence.NewMemorySessionStore()
}
