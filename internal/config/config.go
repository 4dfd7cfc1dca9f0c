package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quillmarketing.com/quill-web/internal/seo"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultHandlerTimeout  = 30 * time.Second
	defaultTemplatesDir    = "templates"
	defaultPublicDir       = "public"
	defaultContentDir      = "content"
	defaultContentCacheTTL = 5 * time.Minute
	defaultLogLevel        = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Site      seo.Site
	Paths     PathConfig
	Content   ContentConfig
	Analytics AnalyticsConfig
	Log       LogConfig
	DevMode   bool
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	HandlerTimeout time.Duration
}

// PathConfig locates templates, static assets and content on disk.
type PathConfig struct {
	Templates string
	Public    string
	Content   string
}

// ContentConfig controls content loading.
type ContentConfig struct {
	CacheTTL time.Duration
}

// AnalyticsConfig holds the GA4 measurement settings injected into every page.
type AnalyticsConfig struct {
	GA4MeasurementID string
	Debug            bool
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// ValidationError is returned when required configuration fields are missing or invalid.
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

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides and environment variables.
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
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	// Port resolution: prefer QUILL_WEB_PORT, then the platform's PORT.
	port := stringWithDefault(lookup, "QUILL_WEB_PORT", stringWithDefault(lookup, "PORT", defaultPort))

	site := seo.DefaultSite()
	site.Brand = stringWithDefault(lookup, "QUILL_WEB_SITE_BRAND", site.Brand)
	site.URL = strings.TrimRight(stringWithDefault(lookup, "QUILL_WEB_SITE_URL", site.URL), "/")
	site.Logo = stringWithDefault(lookup, "QUILL_WEB_SITE_LOGO", site.Logo)
	site.DefaultTitle = stringWithDefault(lookup, "QUILL_WEB_SEO_TITLE", site.DefaultTitle)
	site.DefaultDescription = stringWithDefault(lookup, "QUILL_WEB_SEO_DESCRIPTION", site.DefaultDescription)
	site.DefaultKeywords = stringWithDefault(lookup, "QUILL_WEB_SEO_KEYWORDS", site.DefaultKeywords)
	site.DefaultOGImage = stringWithDefault(lookup, "QUILL_WEB_SEO_OG_IMAGE", site.DefaultOGImage)
	site.DefaultOGURL = stringWithDefault(lookup, "QUILL_WEB_SEO_OG_URL", site.URL+"/")
	site.OrgDescription = stringWithDefault(lookup, "QUILL_WEB_SITE_DESCRIPTION", site.OrgDescription)
	if social := csvWithDefault(lookup, "QUILL_WEB_SITE_SAME_AS"); social != nil {
		site.SameAs = social
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:           stringWithDefault(lookup, "QUILL_WEB_ADDR", ":"+port),
			ReadTimeout:    durationWithDefault(lookup, "QUILL_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:   durationWithDefault(lookup, "QUILL_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:    durationWithDefault(lookup, "QUILL_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			HandlerTimeout: durationWithDefault(lookup, "QUILL_WEB_HANDLER_TIMEOUT", defaultHandlerTimeout),
		},
		Site: site,
		Paths: PathConfig{
			Templates: stringWithDefault(lookup, "QUILL_WEB_TEMPLATES_DIR", defaultTemplatesDir),
			Public:    stringWithDefault(lookup, "QUILL_WEB_PUBLIC_DIR", defaultPublicDir),
			Content:   stringWithDefault(lookup, "QUILL_WEB_CONTENT_DIR", defaultContentDir),
		},
		Content: ContentConfig{
			CacheTTL: durationWithDefault(lookup, "QUILL_WEB_CONTENT_CACHE_TTL", defaultContentCacheTTL),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: strings.TrimSpace(stringWithDefault(lookup, "QUILL_WEB_GA4_MEASUREMENT_ID", "")),
			Debug:            boolWithDefault(lookup, "QUILL_WEB_ANALYTICS_DEBUG", false),
		},
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "QUILL_WEB_LOG_LEVEL", defaultLogLevel)),
		},
		// Dev mode: prefer QUILL_WEB_DEV, fallback to DEV
		DevMode: boolWithDefault(lookup, "QUILL_WEB_DEV", boolWithDefault(lookup, "DEV", false)),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		missing = append(missing, "Server.Addr")
	}
	if cfg.Server.ReadTimeout <= 0 {
		missing = append(missing, "Server.ReadTimeout")
	}
	if cfg.Server.WriteTimeout <= 0 {
		missing = append(missing, "Server.WriteTimeout")
	}
	if strings.TrimSpace(cfg.Site.Brand) == "" {
		missing = append(missing, "Site.Brand")
	}
	if !strings.HasPrefix(cfg.Site.URL, "http://") && !strings.HasPrefix(cfg.Site.URL, "https://") {
		missing = append(missing, "Site.URL")
	}
	if cfg.Content.CacheTTL <= 0 {
		missing = append(missing, "Content.CacheTTL")
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

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		values[key] = strings.Trim(value, "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
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

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
