package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_finder/internal/adapters/amadeus"
	"hotel_finder/internal/adapters/observability"
	redisad "hotel_finder/internal/adapters/redis"
	"hotel_finder/internal/app"
	"hotel_finder/internal/domain"
	"hotel_finder/internal/shared"
)

// probe runs one search per configured destination, concurrently, sharing a
// single token manager. It is a smoke check against the provider sandbox.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	checkIn := domain.DateOnly(time.Now()).AddDate(0, 0, 1)
	checkOut := checkIn.AddDate(0, 0, cfg.ProbeNights)

	log.Info().
		Str("base", cfg.AmadeusBase).
		Int("workers", cfg.ProbeWorkers).
		Strs("destinations", cfg.ProbeDestinations).
		Str("check_in", checkIn.Format(domain.DateLayout)).
		Int("nights", cfg.ProbeNights).
		Msg("probe starting")

	client, err := amadeus.New(cfg.AmadeusBase, cfg.ProviderRPS, cfg.ProviderMaxAttempts, cfg.ProviderTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider client")
	}
	var store domain.TokenStore = app.NewMemoryTokenStore()
	if cfg.RedisAddr != "" {
		store = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	tokens := app.NewTokenManager(client, store, cfg.AmadeusKey, cfg.AmadeusSecret)
	search := app.NewSearchService(client, tokens, app.NewLocationResolver(client),
		app.NewOfferNormalizer(cfg.PlaceholderImage),
		app.SearchOptions{Currency: cfg.SearchCurrency, RadiusKM: cfg.SearchRadiusKM})

	sem := semaphore.NewWeighted(int64(cfg.ProbeWorkers))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)

	for _, dest := range cfg.ProbeDestinations {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(dest string) {
			defer wg.Done()
			defer sem.Release(1)

			c := domain.SearchCriteria{Destination: dest, CheckIn: checkIn, CheckOut: checkOut, Guests: 1}
			hotels, err := search.Search(ctx, c)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				log.Warn().Str("destination", dest).Str("kind", domain.KindOf(err).String()).Err(err).Msg("probe search failed")
				return
			}
			log.Info().Str("destination", dest).Int("hotels", len(hotels)).Int("nights", c.Nights()).Msg("probe search ok")
		}(dest)
	}

	wg.Wait()
	log.Info().Int("destinations", len(cfg.ProbeDestinations)).Int("failed", failed).Msg("probe completed")
}
