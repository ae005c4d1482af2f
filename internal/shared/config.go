package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	AmadeusBase   string
	AmadeusKey    string
	AmadeusSecret string

	ProviderTimeout     time.Duration
	ProviderRPS         int
	ProviderMaxAttempts int

	SearchCurrency   string
	SearchRadiusKM   int
	PlaceholderImage string

	MySQLDSN  string // empty: trips kept in memory
	RedisAddr string // empty: token kept in memory
	RedisPass string
	RedisDB   int

	ProbeWorkers      int
	ProbeDestinations []string
	ProbeNights       int
}

const defaultPlaceholderImage = "https://images.unsplash.com/photo-1566073771259-6a8506099945?w=800"

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		AmadeusBase:   strings.TrimRight(env("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/"),
		AmadeusKey:    os.Getenv("AMADEUS_API_KEY"),
		AmadeusSecret: os.Getenv("AMADEUS_API_SECRET"),

		ProviderTimeout:     time.Duration(atoi("PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second,
		ProviderRPS:         atoi("PROVIDER_RPS", 10),
		ProviderMaxAttempts: atoi("PROVIDER_MAX_ATTEMPTS", 2),

		SearchCurrency:   strings.ToUpper(env("SEARCH_CURRENCY", "USD")),
		SearchRadiusKM:   atoi("SEARCH_RADIUS_KM", 20),
		PlaceholderImage: env("PLACEHOLDER_IMAGE_URL", defaultPlaceholderImage),

		MySQLDSN:  os.Getenv("MYSQL_DSN"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   atoi("REDIS_DB", 0),

		ProbeWorkers:      atoi("PROBE_WORKERS", 4),
		ProbeDestinations: splitList(env("PROBE_DESTINATIONS", "Paris,London,Berlin,Rome,Madrid")),
		ProbeNights:       atoi("PROBE_NIGHTS", 2),
	}
	if c.AmadeusKey == "" || c.AmadeusSecret == "" {
		// searches fail with a config error until both are set
		log.Warn().Msg("AMADEUS_API_KEY or AMADEUS_API_SECRET is empty")
	}
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = 10 * time.Second
	}
	if c.ProbeWorkers < 1 {
		c.ProbeWorkers = 1
	}
	if c.ProbeNights < 1 {
		c.ProbeNights = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
