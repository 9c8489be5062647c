package main

import (
	"context"
	"embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voicescreen/interviewd/core/archive"
	"github.com/voicescreen/interviewd/core/auth"
	"github.com/voicescreen/interviewd/core/bank"
	"github.com/voicescreen/interviewd/core/completion"
	"github.com/voicescreen/interviewd/core/config"
	"github.com/voicescreen/interviewd/core/interview"
	"github.com/voicescreen/interviewd/core/logger"
	"github.com/voicescreen/interviewd/core/registry"
	"github.com/voicescreen/interviewd/core/server"
	"github.com/voicescreen/interviewd/core/speech"
	"github.com/voicescreen/interviewd/core/token"
	"github.com/voicescreen/interviewd/integration/database/pg"
	"github.com/voicescreen/interviewd/integration/database/redis"
	"github.com/voicescreen/interviewd/pkg/ratelimiter"
	"github.com/voicescreen/interviewd/pkg/vectorizer"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	var log = logger.New(logger.WithProduction(cfg.AppName))
	if cfg.AppEnv == "development" {
		log = logger.New(logger.WithDevelopment(cfg.AppName))
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", logger.Component("redis"), logger.Error(err))
		os.Exit(1)
	}
	defer rdb.Close()

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Component("postgres"), logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, cfg.PG.ConnectionString, migrationsFS, "migrations"); err != nil {
		log.Error("failed to migrate database", logger.Component("postgres.migration"), logger.Error(err))
		os.Exit(1)
	}

	tokens, err := token.New(cfg.Token.AccessSecret, cfg.Token.RefreshSecret,
		token.NewRedisWhitelist(rdb),
		token.WithAccessTTL(cfg.Token.AccessTTL),
		token.WithRefreshTTL(cfg.Token.RefreshTTL),
	)
	if err != nil {
		log.Error("failed to create token manager", logger.Component("token"), logger.Error(err))
		os.Exit(1)
	}

	store := auth.NewPGStore(pool)
	accounts := auth.NewService(store, tokens)

	stt, err := speech.NewOpenAI(cfg.OpenAIKey)
	if err != nil {
		log.Error("failed to create speech client", logger.Component("speech"), logger.Error(err))
		os.Exit(1)
	}

	openaiCompleter, err := completion.NewOpenAI(cfg.OpenAIKey)
	if err != nil {
		log.Error("failed to create openai completer", logger.Component("completion"), logger.Error(err))
		os.Exit(1)
	}
	var googleCompleter *completion.Google
	if cfg.GeminiKey != "" {
		googleCompleter, err = completion.NewGoogle(ctx, cfg.GeminiKey)
		if err != nil {
			log.Error("failed to create gemini completer", logger.Component("completion"), logger.Error(err))
			os.Exit(1)
		}
	}
	completer := completion.NewRouter(openaiCompleter, googleCompleter)

	vec, err := vectorizer.NewOpenAI(cfg.OpenAIKey)
	if err != nil {
		log.Error("failed to create vectorizer", logger.Component("vectorizer"), logger.Error(err))
		os.Exit(1)
	}

	reg := registry.New()
	orchestrator := interview.New(
		reg,
		stt,
		stt,
		completer,
		bank.NewPG(pool),
		archive.NewPG(pool, vec, log.With(logger.Component("archive"))),
		log.With(logger.Component("interview")),
	)

	limiter, err := ratelimiter.NewBucket(
		ratelimiter.NewRedisStore(rdb, "auth"),
		ratelimiter.Config{Capacity: 10, RefillRate: 5, RefillInterval: time.Minute},
	)
	if err != nil {
		log.Error("failed to create rate limiter", logger.Component("ratelimiter"), logger.Error(err))
		os.Exit(1)
	}

	h := newHandlers(log, tokens, accounts, store, orchestrator, reg, completer, limiter, cfg.SystemPrompt)

	mux := http.NewServeMux()
	h.routes(mux)
	mux.HandleFunc("GET /live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.Healthcheck(pool)(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "postgres unavailable")
			return
		}
		if err := redis.Healthcheck(rdb)(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv, err := server.NewFromConfig(cfg.Server, log.With(logger.Component("server")))
	if err != nil {
		log.Error("failed to create server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Run(ctx, mux))

	if err := eg.Wait(); err != nil {
		log.Error("service exited with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("service stopped")
}
