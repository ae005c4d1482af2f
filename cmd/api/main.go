package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_finder/internal/adapters/amadeus"
	server "hotel_finder/internal/adapters/http_server"
	"hotel_finder/internal/adapters/observability"
	redisad "hotel_finder/internal/adapters/redis"
	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/shared"
	"hotel_finder/internal/storage/memory"
	mysqlrepo "hotel_finder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	client, err := amadeus.New(cfg.AmadeusBase, cfg.ProviderRPS, cfg.ProviderMaxAttempts, cfg.ProviderTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider client")
	}

	tokens := app.NewTokenManager(client, tokenStore(cfg), cfg.AmadeusKey, cfg.AmadeusSecret)
	search := app.NewSearchService(client, tokens, app.NewLocationResolver(client),
		app.NewOfferNormalizer(cfg.PlaceholderImage),
		app.SearchOptions{Currency: cfg.SearchCurrency, RadiusKM: cfg.SearchRadiusKM})
	trips := app.NewTripService(tripRepo(cfg), app.NewBookingService())

	// http; the handler deadline leaves room for one provider retry
	srv := server.New(2*cfg.ProviderTimeout + 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Search: search, Trips: trips})

	log.Info().Str("addr", cfg.HTTPAddr).Str("provider", cfg.AmadeusBase).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func tokenStore(cfg shared.Config) domain.TokenStore {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR empty; provider token kept in memory")
		return app.NewMemoryTokenStore()
	}
	store := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed; token cache will refresh on every miss")
	}
	return store
}

func tripRepo(cfg shared.Config) domain.TripRepository {
	if cfg.MySQLDSN == "" {
		log.Info().Msg("MYSQL_DSN empty; trips kept in memory")
		return memory.NewTripStore()
	}
	dsn, err := mysqlrepo.NormalizeDSN(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid MySQL DSN")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db)
}
