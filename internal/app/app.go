package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/auth"
	"github.com/aydsapp/trivia-server/internal/auth/jwt"
	"github.com/aydsapp/trivia-server/internal/claim"
	"github.com/aydsapp/trivia-server/internal/config"
	"github.com/aydsapp/trivia-server/internal/db/repository"
	"github.com/aydsapp/trivia-server/internal/logging"
	"github.com/aydsapp/trivia-server/internal/ranking"
	"github.com/aydsapp/trivia-server/internal/server"
	"github.com/aydsapp/trivia-server/internal/session"
	"github.com/aydsapp/trivia-server/internal/trivia"
	"github.com/aydsapp/trivia-server/internal/trivia/httpapi"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	userRepo := repository.NewUserRepository(pool)
	difficultyRepo := repository.NewDifficultyRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	triviaRepo := repository.NewTriviaRepository(pool)
	rankingRepo := repository.NewRankingRepository(pool)
	claimRepo := repository.NewClaimRepository(pool)

	authSvc := auth.NewService(userRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret:  []byte(cfg.Security.JWTSecret),
			RefreshSecret: []byte(cfg.Security.JWTSecret + "_refresh"),
			Issuer:        cfg.Name,
		},
	}, logger)

	var oauthSvc *auth.OAuthService
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		redirectURL := cfg.OAuth.GoogleRedirectURL
		if redirectURL == "" {
			redirectURL = fmt.Sprintf("http://%s/v1/oauth/google/callback", cfg.HTTPAddr)
		}
		oauthSvc = auth.NewOAuthService(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, redirectURL, logger)
		logger.Info().Msg("OAuth service initialized")
	} else {
		logger.Warn().Msg("OAuth not configured (missing GOOGLE_OAUTH_CLIENT_ID or GOOGLE_OAUTH_CLIENT_SECRET)")
	}
	authHandlers := auth.NewHTTPHandlers(authSvc, oauthSvc, logger)

	rankingSvc := ranking.NewService(rankingRepo, redisClient, ranking.ServiceOptions{
		TopN:     cfg.Ranking.TopN,
		CacheTTL: cfg.Ranking.CacheTTL,
	}, logger)
	rankingHandler := ranking.NewHTTPHandler(rankingSvc, difficultyRepo, logger)

	triviaSvc := trivia.NewService(difficultyRepo, questionRepo, triviaRepo, rankingSvc, trivia.ServiceOptions{
		Limits: trivia.Limits{
			Beginner: cfg.Trivia.BeginnerTimeLimit,
			Default:  cfg.Trivia.DefaultTimeLimit,
		},
	}, logger)

	sessionStore := session.NewStore(redisClient, cfg.Session.TTL, logger)
	sessionCookie := session.Cookie{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Env == "production",
	}
	triviaHandlers := httpapi.NewHandlers(triviaSvc, sessionStore, difficultyRepo, sessionCookie, logger)

	var notifier claim.Notifier
	if cfg.SMTP.Host != "" && len(cfg.SMTP.ManagerEmails) > 0 {
		notifier = claim.NewEmailNotifier(claim.EmailConfig{
			SMTPHost:     cfg.SMTP.Host,
			SMTPPort:     cfg.SMTP.Port,
			SMTPUsername: cfg.SMTP.Username,
			SMTPPassword: cfg.SMTP.Password,
			FromEmail:    cfg.SMTP.FromEmail,
			Managers:     cfg.SMTP.ManagerEmails,
		}, logger)
	} else {
		logger.Warn().Msg("SMTP not configured; claims will be stored without notification")
	}
	claimSvc := claim.NewService(claimRepo, userRepo, notifier, logger)
	claimHandler := claim.NewHTTPHandler(claimSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, authSvc, authHandlers, triviaHandlers, rankingHandler, claimHandler)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
