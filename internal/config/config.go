package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrMissingCredential marks validation failures caused by an absent API key
// for one of the optional integrations. Callers check it with eris.Is to
// degrade the feature with a warning instead of treating it as a hard fault.
var ErrMissingCredential = eris.New("config: missing credential")

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Overpass OverpassConfig `yaml:"overpass" mapstructure:"overpass"`
	IBGE     IBGEConfig     `yaml:"ibge" mapstructure:"ibge"`
	Probe    ProbeConfig    `yaml:"probe" mapstructure:"probe"`
	Scorer   ScorerConfig   `yaml:"scorer" mapstructure:"scorer"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp" mapstructure:"whatsapp"`
	Places   PlacesConfig   `yaml:"places" mapstructure:"places"`
	Trends   TrendsConfig   `yaml:"trends" mapstructure:"trends"`
}

// StoreConfig configures the session persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// SearchConfig configures the prospecting search.
type SearchConfig struct {
	RadiusKm         int `yaml:"radius_km" mapstructure:"radius_km"`
	MaxResults       int `yaml:"max_results" mapstructure:"max_results"`
	ProbeConcurrency int `yaml:"probe_concurrency" mapstructure:"probe_concurrency"`
}

// GeocodeConfig configures the Nominatim geocoder.
type GeocodeConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// OverpassConfig configures the Overpass establishment search.
type OverpassConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	QueryTimeout int    `yaml:"query_timeout" mapstructure:"query_timeout"` // server-side [timeout:N]
	MaxAttempts  int    `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// IBGEConfig configures the IBGE localities client.
type IBGEConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ProbeConfig configures the website prober.
type ProbeConfig struct {
	TimeoutSecs   int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxBodyBytes  int `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	SEOHTTPS      int `yaml:"seo_https" mapstructure:"seo_https"`
	SEOReachable  int `yaml:"seo_reachable" mapstructure:"seo_reachable"`
	SEOFast       int `yaml:"seo_fast" mapstructure:"seo_fast"`
	SEOViewport   int `yaml:"seo_viewport" mapstructure:"seo_viewport"`
	SlowThreshold int `yaml:"slow_threshold_secs" mapstructure:"slow_threshold_secs"`
}

// ScorerConfig holds the opportunity scoring rule weights. They are tunable
// constants, not sacred values; defaults match the observed behavior.
type ScorerConfig struct {
	NoWebsite      int `yaml:"no_website" mapstructure:"no_website"`
	Unreachable    int `yaml:"unreachable" mapstructure:"unreachable"`
	NoHTTPS        int `yaml:"no_https" mapstructure:"no_https"`
	SlowResponse   int `yaml:"slow_response" mapstructure:"slow_response"`
	NoViewport     int `yaml:"no_viewport" mapstructure:"no_viewport"`
	WeakSEO        int `yaml:"weak_seo" mapstructure:"weak_seo"`
	WeakSEOBelow   int `yaml:"weak_seo_below" mapstructure:"weak_seo_below"`
	NoSocial       int `yaml:"no_social" mapstructure:"no_social"`
	NoPhone        int `yaml:"no_phone" mapstructure:"no_phone"`
	NoEmail        int `yaml:"no_email" mapstructure:"no_email"`
	SlowThreshold  int `yaml:"slow_threshold_secs" mapstructure:"slow_threshold_secs"`
	MaxSuggestions int `yaml:"max_suggestions" mapstructure:"max_suggestions"`
	HighTier       int `yaml:"high_tier" mapstructure:"high_tier"`
	MediumTier     int `yaml:"medium_tier" mapstructure:"medium_tier"`
}

// WhatsAppConfig configures outbound messaging link generation.
type WhatsAppConfig struct {
	CountryCode      string `yaml:"country_code" mapstructure:"country_code"`
	DefaultMessage   string `yaml:"default_message" mapstructure:"default_message"`
	EmptyPhonePolicy string `yaml:"empty_phone_policy" mapstructure:"empty_phone_policy"` // "omit" or "empty"
}

// PlacesConfig holds the optional Google Places integration.
type PlacesConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// TrendsConfig holds the optional search-trends integration.
type TrendsConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prospector.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("search.radius_km", 20)
	v.SetDefault("search.max_results", 30)
	v.SetDefault("search.probe_concurrency", 5)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "LP-Design-Prospector/2.0")
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.rate_per_sec", 1) // Nominatim usage policy: max 1 req/s
	v.SetDefault("overpass.base_url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.timeout_secs", 35)
	v.SetDefault("overpass.query_timeout", 25)
	v.SetDefault("overpass.max_attempts", 1)
	v.SetDefault("ibge.base_url", "https://servicodados.ibge.gov.br/api/v1/localidades")
	v.SetDefault("ibge.timeout_secs", 10)
	v.SetDefault("probe.timeout_secs", 5)
	v.SetDefault("probe.max_body_bytes", 256*1024)
	v.SetDefault("probe.seo_https", 20)
	v.SetDefault("probe.seo_reachable", 30)
	v.SetDefault("probe.seo_fast", 20)
	v.SetDefault("probe.seo_viewport", 30)
	v.SetDefault("probe.slow_threshold_secs", 3)
	v.SetDefault("scorer.no_website", 40)
	v.SetDefault("scorer.unreachable", 35)
	v.SetDefault("scorer.no_https", 15)
	v.SetDefault("scorer.slow_response", 15)
	v.SetDefault("scorer.no_viewport", 20)
	v.SetDefault("scorer.weak_seo", 25)
	v.SetDefault("scorer.weak_seo_below", 50)
	v.SetDefault("scorer.no_social", 20)
	v.SetDefault("scorer.no_phone", 10)
	v.SetDefault("scorer.no_email", 10)
	v.SetDefault("scorer.slow_threshold_secs", 3)
	v.SetDefault("scorer.max_suggestions", 5)
	v.SetDefault("scorer.high_tier", 70)
	v.SetDefault("scorer.medium_tier", 40)
	v.SetDefault("whatsapp.country_code", "55")
	v.SetDefault("whatsapp.default_message", "Olá! Sou da LP Design. Gostaria de conversar sobre melhorar a presença digital de {empresa}.")
	v.SetDefault("whatsapp.empty_phone_policy", "omit")
	v.SetDefault("places.base_url", "https://places.googleapis.com/v1")
	v.SetDefault("trends.base_url", "https://serpapi.com")
	v.SetDefault("trends.timeout_secs", 15)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration required by the given scope is
// usable. Scopes: "store", "serve", "places", "trends".
func (c *Config) Validate(scope string) error {
	switch scope {
	case "store":
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			return eris.Errorf("config: unknown store driver %q (valid: sqlite, postgres)", c.Store.Driver)
		}
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return eris.Errorf("config: invalid server port %d", c.Server.Port)
		}
	case "places":
		if c.Places.Key == "" {
			return eris.Wrap(ErrMissingCredential, "places.key is required (set PROSPECTOR_PLACES_KEY)")
		}
	case "trends":
		if c.Trends.Key == "" {
			return eris.Wrap(ErrMissingCredential, "trends.key is required (set PROSPECTOR_TRENDS_KEY)")
		}
	}

	if p := c.WhatsApp.EmptyPhonePolicy; p != "omit" && p != "empty" {
		return eris.Errorf("config: whatsapp.empty_phone_policy must be omit or empty, got %q", p)
	}

	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
