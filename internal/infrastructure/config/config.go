package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/savedeities/contribute/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Backend      sharedConfig.BackendConfig      `mapstructure:"backend"`
	Gateway      sharedConfig.GatewayConfig      `mapstructure:"gateway"`
	Contribution sharedConfig.ContributionConfig `mapstructure:"contribution"`
	Token        sharedConfig.TokenConfig        `mapstructure:"token"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"rate_limit"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Support      sharedConfig.SupportConfig      `mapstructure:"support"`
	Cases        sharedConfig.CasesConfig        `mapstructure:"cases"`
	Timezone     string                          `mapstructure:"timezone"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	return load(v, env)
}

// LoadFile loads configuration from an explicit path.
func LoadFile(path, env string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, env)
}

func load(v *viper.Viper, env string) (*Config, error) {
	// CONTRIB_GATEWAY_AWAIT_TIMEOUT overrides gateway.await_timeout
	v.SetEnvPrefix("CONTRIB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("token.secret is required")
	}
	if c.Gateway.AwaitTimeout < 0 {
		return fmt.Errorf("gateway.await_timeout must not be negative")
	}
	if len(c.Contribution.CasePresets) == 0 || len(c.Contribution.GeneralPresets) == 0 {
		return fmt.Errorf("contribution presets must not be empty")
	}
	return nil
}

// IsDebug reports whether the server runs in debug mode.
func (c *Config) IsDebug() bool {
	return c.Server.Mode == "debug"
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.cookie_secure", false)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:3000")
	v.SetDefault("backend.order_path", "/api/payment/create-order")
	v.SetDefault("backend.verify_path", "/api/payment/verify")
	v.SetDefault("backend.timeout", "15s")

	// Gateway defaults
	v.SetDefault("gateway.script_url", "https://checkout.razorpay.com/v1/checkout.js")
	v.SetDefault("gateway.script_timeout", "10s")
	v.SetDefault("gateway.display_name", "Save Deities")
	v.SetDefault("gateway.theme_color", "#ea580c")
	v.SetDefault("gateway.await_timeout", "0s")

	// Contribution defaults
	v.SetDefault("contribution.currency", "INR")
	v.SetDefault("contribution.case_presets", []string{"500", "1000", "2500", "5000", "10000"})
	v.SetDefault("contribution.general_presets", []string{"500", "1000", "2500", "5000", "10000", "25000"})
	v.SetDefault("contribution.max_amount", "1000000")
	v.SetDefault("contribution.general_description", "General Contribution for Temple Protection")
	v.SetDefault("contribution.case_fallback_title", "Temple Protection")
	v.SetDefault("contribution.strict_donor_validation", false)
	v.SetDefault("contribution.session_ttl", "2h")
	v.SetDefault("contribution.verify_timeout", "30s")

	// Token defaults
	v.SetDefault("token.secret", "change-me-in-production")
	v.SetDefault("token.ttl", "24h")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.limit", 10)
	v.SetDefault("rate_limit.window", "1m")

	// Email defaults
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@savedeities.local")
	v.SetDefault("email.from_name", "Save Deities")

	// Support defaults
	v.SetDefault("support.enabled", false)
	v.SetDefault("support.address", "support@savedeities.local")

	// Cases defaults
	v.SetDefault("cases.catalog_path", "configs/cases.yaml")

	v.SetDefault("timezone", "Asia/Kolkata")
}
