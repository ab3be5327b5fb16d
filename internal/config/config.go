// Package config loads the bakery web server configuration from defaults, an
// optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile        = ".env"
	defaultPort           = "8080"
	defaultTemplatesDir   = "templates"
	defaultPublicDir      = "public"
	defaultContentDir     = "content"
	defaultLocalesDir     = "locales"
	defaultCatalogURL     = "public/menu-data.json"
	defaultAssetRoot      = "images"
	defaultCatalogTTL     = 5 * time.Minute
	defaultFetchTimeout   = 5 * time.Second
	defaultConsultTimeout = 20 * time.Second
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 60 * time.Second
	defaultShutdown       = 10 * time.Second
	defaultSiteURL        = "http://localhost:8080"
	defaultLocale         = "vi"
	minSigningKeyLength   = 32
)

// Config is the resolved server configuration.
type Config struct {
	Env       string
	DevMode   bool
	SiteURL   string
	Locale    string
	Server    ServerConfig
	Paths     PathsConfig
	Catalog   CatalogConfig
	CMS       CMSConfig
	Gemini    GeminiConfig
	Session   SessionConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// PathsConfig locates on-disk resources.
type PathsConfig struct {
	Templates string
	Public    string
	Content   string
	Locales   string
}

// CatalogConfig controls the menu catalog source.
type CatalogConfig struct {
	// URL is an http(s) URL or a local file path.
	URL          string
	AssetRoot    string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// CMSConfig points at an optional remote source of section copy.
type CMSConfig struct {
	BaseURL string
}

// GeminiConfig controls the AI consultant.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether an API key is configured.
func (g GeminiConfig) Enabled() bool { return strings.TrimSpace(g.APIKey) != "" }

// SessionConfig controls the signed visitor cookie.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

// AnalyticsConfig mirrors the optional tracking IDs rendered into the page.
type AnalyticsConfig struct {
	GA4MeasurementID string
	GTMContainerID   string
	Debug            bool
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over the system environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration with precedence defaults < .env < OS env < WithEnvMap.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	env := strings.ToLower(stringWithDefault(lookup, "BAKERY_WEB_ENV", "local"))
	port := stringWithDefault(lookup, "BAKERY_WEB_PORT", stringWithDefault(lookup, "PORT", defaultPort))

	cfg := Config{
		Env:     env,
		DevMode: boolWithDefault(lookup, "BAKERY_WEB_DEV", boolWithDefault(lookup, "DEV", false)),
		SiteURL: strings.TrimRight(stringWithDefault(lookup, "BAKERY_WEB_SITE_URL", defaultSiteURL), "/"),
		Locale:  stringWithDefault(lookup, "BAKERY_WEB_DEFAULT_LOCALE", defaultLocale),
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     durationWithDefault(lookup, "BAKERY_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "BAKERY_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "BAKERY_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "BAKERY_WEB_SHUTDOWN_TIMEOUT", defaultShutdown),
		},
		Paths: PathsConfig{
			Templates: stringWithDefault(lookup, "BAKERY_WEB_TEMPLATES_DIR", defaultTemplatesDir),
			Public:    stringWithDefault(lookup, "BAKERY_WEB_PUBLIC_DIR", defaultPublicDir),
			Content:   stringWithDefault(lookup, "BAKERY_WEB_CONTENT_DIR", defaultContentDir),
			Locales:   stringWithDefault(lookup, "BAKERY_WEB_LOCALES_DIR", defaultLocalesDir),
		},
		Catalog: CatalogConfig{
			URL:          stringWithDefault(lookup, "BAKERY_WEB_CATALOG_URL", defaultCatalogURL),
			AssetRoot:    stringWithDefault(lookup, "BAKERY_WEB_ASSET_ROOT", defaultAssetRoot),
			CacheTTL:     durationWithDefault(lookup, "BAKERY_WEB_CATALOG_TTL", defaultCatalogTTL),
			FetchTimeout: durationWithDefault(lookup, "BAKERY_WEB_CATALOG_TIMEOUT", defaultFetchTimeout),
		},
		CMS: CMSConfig{
			BaseURL: stringWithDefault(lookup, "BAKERY_WEB_CMS_BASE_URL", ""),
		},
		Gemini: GeminiConfig{
			APIKey:  firstNonEmpty(lookup, "BAKERY_WEB_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"),
			Model:   stringWithDefault(lookup, "BAKERY_WEB_GEMINI_MODEL", ""),
			Timeout: durationWithDefault(lookup, "BAKERY_WEB_GEMINI_TIMEOUT", defaultConsultTimeout),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "BAKERY_WEB_SESSION_SIGNING_KEY", ""),
			Secure:     env == "prod",
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: stringWithDefault(lookup, "BAKERY_WEB_GA_MEASUREMENT_ID", ""),
			GTMContainerID:   stringWithDefault(lookup, "BAKERY_WEB_GTM_CONTAINER_ID", ""),
			Debug:            boolWithDefault(lookup, "BAKERY_WEB_ANALYTICS_DEBUG", false),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		missing = append(missing, "Server.Port")
	}
	if cfg.Catalog.URL == "" {
		missing = append(missing, "Catalog.URL")
	}
	if cfg.Catalog.CacheTTL < 0 {
		missing = append(missing, "Catalog.CacheTTL")
	}
	if cfg.Catalog.FetchTimeout <= 0 {
		missing = append(missing, "Catalog.FetchTimeout")
	}
	if cfg.Gemini.Timeout <= 0 {
		missing = append(missing, "Gemini.Timeout")
	}
	if cfg.Env == "prod" && len(cfg.Session.SigningKey) < minSigningKeyLength {
		missing = append(missing, "Session.SigningKey")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func firstNonEmpty(lookup func(string) (string, bool), keys ...string) string {
	for _, key := range keys {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
