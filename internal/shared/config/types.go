package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// CookieSecure marks the donor session cookie Secure.
	CookieSecure bool `mapstructure:"cookie_secure"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// BackendConfig points at the order/verification service.
type BackendConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	OrderPath  string        `mapstructure:"order_path"`
	VerifyPath string        `mapstructure:"verify_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// GatewayConfig describes the hosted checkout UI.
type GatewayConfig struct {
	ScriptURL     string        `mapstructure:"script_url"`
	ScriptTimeout time.Duration `mapstructure:"script_timeout"`
	DisplayName   string        `mapstructure:"display_name"`
	ThemeColor    string        `mapstructure:"theme_color"`
	// AwaitTimeout bounds the wait for the donor. Zero waits indefinitely.
	AwaitTimeout time.Duration `mapstructure:"await_timeout"`
}

type ContributionConfig struct {
	Currency              string        `mapstructure:"currency"`
	CasePresets           []string      `mapstructure:"case_presets"`
	GeneralPresets        []string      `mapstructure:"general_presets"`
	// MaxAmount caps custom amounts; empty means uncapped.
	MaxAmount             string        `mapstructure:"max_amount"`
	GeneralDescription    string        `mapstructure:"general_description"`
	CaseFallbackTitle     string        `mapstructure:"case_fallback_title"`
	StrictDonorValidation bool          `mapstructure:"strict_donor_validation"`
	SessionTTL            time.Duration `mapstructure:"session_ttl"`
	VerifyTimeout         time.Duration `mapstructure:"verify_timeout"`
}

// TokenConfig signs attempt tokens handed to the checkout page.
type TokenConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// SupportConfig controls who hears about payments that need manual follow-up.
type SupportConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type CasesConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
}
