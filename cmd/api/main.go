package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fkhayef/suitekeep/docs"
	"github.com/fkhayef/suitekeep/internal/account"
	"github.com/fkhayef/suitekeep/internal/config"
	"github.com/fkhayef/suitekeep/internal/database"
	"github.com/fkhayef/suitekeep/internal/invitation"
	"github.com/fkhayef/suitekeep/internal/logging"
	"github.com/fkhayef/suitekeep/internal/notification"
	"github.com/fkhayef/suitekeep/internal/suite"
	mw "github.com/fkhayef/suitekeep/pkg/middleware"
)

// @title           SuiteKeep Membership API
// @version         1.0
// @description     Suites, members and invitation links for SuiteKeep.
// @BasePath        /api/v1
// @securityDefinitions.apikey AccountID
// @in header
// @name X-Account-ID
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logger.Info().Msg("no .env file found, using environment variables")
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	logger.Info().Msg("connected to database")

	accountService := account.NewService(account.NewRepository(db))
	suiteService := suite.NewService(suite.NewRepository(db))
	notificationService := notification.NewService(notification.NewRepository(db))
	invitationService := invitation.NewService(
		invitation.NewRepository(db),
		suiteService,
		accountService,
		notificationService,
		cfg.InvitationTTL,
		logger.With().Str("component", "invitation").Logger(),
	)

	if u, err := url.Parse(cfg.PublicBaseURL); err == nil && u.Host != "" {
		docs.SwaggerInfo.Host = u.Host
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(accountService, suiteService, invitationService, notificationService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	waitForShutdown(srv, logger)
}

func newRouter(
	accountService *account.Service,
	suiteService *suite.Service,
	invitationService *invitation.Service,
	notificationService *notification.Service,
) http.Handler {
	invitationHandler := invitation.NewHandler(invitationService)

	suiteRoutes := suite.NewHandler(suiteService).Routes()
	suiteRoutes.Route("/{id}/invitations", invitationHandler.SuiteRoutes)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(mw.Account)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Universal link target for browsers without the app installed
	r.Get("/invite/{token}", invitationHandler.Landing)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/accounts", account.NewHandler(accountService).Routes())
		r.Mount("/suites", suiteRoutes)
		r.Mount("/invitations", invitationHandler.Routes())
		r.Mount("/notifications", notification.NewHandler(notificationService).Routes())
	})

	return r
}

func waitForShutdown(srv *http.Server, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	logger.Info().Msg("server stopped")
}
