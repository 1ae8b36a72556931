package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aydsapp/trivia-server/internal/auth"
	"github.com/aydsapp/trivia-server/internal/claim"
	"github.com/aydsapp/trivia-server/internal/config"
	"github.com/aydsapp/trivia-server/internal/ranking"
	"github.com/aydsapp/trivia-server/internal/trivia/httpapi"
)

// NewHTTPServer wires the API routes: health, metrics, auth, trivia play,
// rankings and claims.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	authSvc *auth.Service,
	authHandlers *auth.HTTPHandlers,
	triviaHandlers *httpapi.Handlers,
	rankingHandler *ranking.HTTPHandler,
	claimHandler *claim.HTTPHandler,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Auth endpoints
	mux.HandleFunc("/v1/auth/register", authHandlers.Register)
	mux.HandleFunc("/v1/auth/login", authHandlers.Login)
	mux.HandleFunc("/v1/auth/refresh", authHandlers.RefreshToken)
	mux.HandleFunc("/v1/oauth/{provider}/start", authHandlers.OAuthStart)
	mux.HandleFunc("/v1/oauth/{provider}/callback", authHandlers.OAuthCallback)
	mux.HandleFunc("/v1/users/me", authHandlers.GetMe)

	// Trivia play endpoints
	mux.HandleFunc("/v1/difficulties", triviaHandlers.HandleDifficulties)
	mux.HandleFunc("/v1/trivia", triviaHandlers.HandleStart)
	mux.HandleFunc("/v1/trivia/questions/", triviaHandlers.HandleQuestion)
	mux.HandleFunc("/v1/trivia/answers", triviaHandlers.HandleAnswer)
	mux.HandleFunc("/v1/trivia/results", triviaHandlers.HandleResults)

	// Rankings
	mux.HandleFunc("/v1/rankings/", rankingHandler.HandleGet)

	// Claims
	mux.HandleFunc("/v1/claims", claimHandler.HandleSubmit)

	handler := corsMiddleware(cfg.CORS)(auth.Middleware(authSvc, logger)(mux))

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}

func corsMiddleware(cfg config.CORS) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed["*"] || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
