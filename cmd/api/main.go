package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/cache"
	"github.com/BruksfildServices01/service-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/service-scheduler/internal/db"
	"github.com/BruksfildServices01/service-scheduler/internal/events"
	"github.com/BruksfildServices01/service-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/service-scheduler/internal/logging"
	"github.com/BruksfildServices01/service-scheduler/internal/metrics"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/routes"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/validators"
)

func main() {

	cfg := config.Load()
	log := logging.New(cfg.Env)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	metrics.Register(prometheus.DefaultRegisterer)
	if err := validators.RegisterGin(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	// ------------------------------
	// cache de disponibilidade
	// ------------------------------
	var store cache.Cache = cache.NewNoop()
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, availability cache disabled")
		} else {
			store = rc
			defer rc.Close()
		}
		cancel()
	}

	// ------------------------------
	// hook de conclusão
	// ------------------------------
	var hook events.CompletionHook = events.NoopHook{}
	if len(cfg.KafkaBrokers) > 0 {
		kh := events.NewKafkaHook(cfg.KafkaBrokers, cfg.KafkaCompletionTopic)
		defer kh.Close()
		hook = kh
	}

	conflicts := audit.NewDispatcher(audit.New(db), log)
	defer conflicts.Close()

	deps := ucAppointment.Deps{
		Store:     repository.NewGormStore(db, cfg.TxTimeout),
		Audit:     audit.NewRecorder(log),
		Conflicts: conflicts,
		Cache:     cache.NewAvailability(store, cfg.CacheTTL),
		Hook:      hook,
		Clock:     timezone.SystemClock(),
		Log:       log,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	routes.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
