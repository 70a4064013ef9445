package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the API server configuration, loadable from environment
// variables (PRICING_ prefix), flags, or YAML config files.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"API server listen address"`
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max burst of requests per client"`
	Window time.Duration `default:"1m"  usage:"Time to refill the full burst"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files and flags, then applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "PRICING",
		Files:     []string{"config.yaml", "/etc/pricing/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// applyPlatformDefaults honours the PORT variable set by hosting platforms
// when no explicit address was configured.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

func (c *Config) validate() error {
	if c.RateLimit.Max <= 0 {
		return errors.Errorf("rate limit max must be positive, got %d", c.RateLimit.Max)
	}
	if c.RateLimit.Window <= 0 {
		return errors.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}
