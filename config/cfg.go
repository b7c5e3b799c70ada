package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/joho/godotenv"
	"github.com/jekabolt/ga4-dashboard/internal/analytics/ga4"
	httpapi "github.com/jekabolt/ga4-dashboard/internal/api/http"
	"github.com/jekabolt/ga4-dashboard/internal/auth/google"
	"github.com/jekabolt/ga4-dashboard/internal/dashboard"
	"github.com/jekabolt/ga4-dashboard/internal/ratelimit"
	"github.com/jekabolt/ga4-dashboard/log"
	"github.com/spf13/viper"
)

const devStateSecret = "dev-secret"

// Config represents the global configuration for the service.
type Config struct {
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	GA4       ga4.Config       `mapstructure:"ga4"`
	Google    google.Config    `mapstructure:"google"`
	Dashboard dashboard.Config `mapstructure:"dashboard"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values, and a .env
// file in the working directory is loaded first when present.
// Nested config keys use double underscore, e.g., GOOGLE__CLIENT_ID for google.client_id
func LoadConfig(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("toml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	setDefaults(v)
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/ga4-dashboard")
		v.AddConfigPath("/etc/ga4-dashboard")
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Google.ClientID == "" || c.Google.ClientSecret == "" {
		return errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}
	if !govalidator.IsRequestURL(c.Google.RedirectURL) {
		return fmt.Errorf("invalid GOOGLE_REDIRECT_URL %q", c.Google.RedirectURL)
	}
	if c.Google.StateSecret == "" {
		if !c.Google.Development {
			return errors.New("SESSION_SECRET is required outside development")
		}
		c.Google.StateSecret = devStateSecret
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "5050")
	v.SetDefault("http.address", "")
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.write_timeout", "60s")

	v.SetDefault("google.redirect_url", "http://localhost:5050/auth/google/callback")
	v.SetDefault("google.state_ttl", "10m")
	v.SetDefault("google.session_lifetime", "24h")

	v.SetDefault("ga4.timeout", "30s")

	v.SetDefault("dashboard.channel_limit", 7)
	v.SetDefault("dashboard.top_pages_limit", 5)
	v.SetDefault("dashboard.previous_limit", 50)

	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.max_requests", 60)
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (GOOGLE__CLIENT_ID) and flat keys (GOOGLE_CLIENT_ID)
func bindEnvVars(v *viper.Viper) {
	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "PORT", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	v.BindEnv("http.read_timeout", "HTTP_READ_TIMEOUT")
	v.BindEnv("http.write_timeout", "HTTP_WRITE_TIMEOUT")

	// GA4
	v.BindEnv("ga4.property_id", "GA4_PROPERTY_ID")
	v.BindEnv("ga4.endpoint", "GA4_ENDPOINT")
	v.BindEnv("ga4.timeout", "GA4_TIMEOUT")

	// Google sign-in and sessions
	v.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	v.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	v.BindEnv("google.redirect_url", "GOOGLE_REDIRECT_URL")
	v.BindEnv("google.state_secret", "SESSION_SECRET")
	v.BindEnv("google.state_ttl", "OAUTH_STATE_TTL")
	v.BindEnv("google.session_lifetime", "SESSION_LIFETIME")
	v.BindEnv("google.development", "DEVELOPMENT")

	// Dashboard
	v.BindEnv("dashboard.channel_limit", "DASHBOARD_CHANNEL_LIMIT")
	v.BindEnv("dashboard.top_pages_limit", "DASHBOARD_TOP_PAGES_LIMIT")
	v.BindEnv("dashboard.previous_limit", "DASHBOARD_PREVIOUS_LIMIT")

	// Rate limit
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("rate_limit.max_requests", "RATE_LIMIT_MAX_REQUESTS")
}
