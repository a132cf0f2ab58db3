package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Allocation AllocationConfig
	Commission CommissionConfig
	Payment    PaymentConfig
	Email      EmailConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// AllocationConfig holds allocation engine tuning
type AllocationConfig struct {
	// MaxDecrementRetries bounds per-partner retries after a ledger
	// version conflict before the partner is skipped
	MaxDecrementRetries int
}

// CommissionConfig holds affiliate and partner commission settings
type CommissionConfig struct {
	Rate            decimal.Decimal // affiliate's share of profit, 0.2 = 20%
	ProfitPerOrder  decimal.Decimal // fixed per-order profit in PHP
	ShippingPerUnit decimal.Decimal // partner shipping commission per allocated unit, in PHP
}

// PaymentConfig holds payment gateway settings
type PaymentConfig struct {
	ClientID  string
	Secret    string
	BaseURL   string
	SandboxOn bool
}

// EmailConfig holds outbound mail settings
type EmailConfig struct {
	Enabled     bool
	FromAddress string
	SMTPHost    string
	SMTPPort    int
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g., SHOP_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Allocation: AllocationConfig{
			MaxDecrementRetries: v.GetInt("allocation.max_decrement_retries"),
		},
		Commission: CommissionConfig{
			Rate:            decimal.NewFromFloat(v.GetFloat64("commission.rate")),
			ProfitPerOrder:  decimal.NewFromFloat(v.GetFloat64("commission.profit_per_order")),
			ShippingPerUnit: decimal.NewFromFloat(v.GetFloat64("commission.shipping_per_unit")),
		},
		Payment: PaymentConfig{
			ClientID:  v.GetString("payment.client_id"),
			Secret:    v.GetString("payment.secret"),
			BaseURL:   v.GetString("payment.base_url"),
			SandboxOn: v.GetBool("payment.sandbox"),
		},
		Email: EmailConfig{
			Enabled:     v.GetBool("email.enabled"),
			FromAddress: v.GetString("email.from_address"),
			SMTPHost:    v.GetString("email.smtp_host"),
			SMTPPort:    v.GetInt("email.smtp_port"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "k-beauty-storefront")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "storefront")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.conn_max_idle_time", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.max_header_bytes", 1<<20)

	v.SetDefault("allocation.max_decrement_retries", 3)

	v.SetDefault("commission.rate", 0.20)
	v.SetDefault("commission.profit_per_order", 80.0)
	v.SetDefault("commission.shipping_per_unit", 10.0)

	v.SetDefault("payment.base_url", "https://api-m.sandbox.paypal.com")
	v.SetDefault("payment.sandbox", true)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_port", 587)
}

func (c *Config) validate() error {
	if c.Allocation.MaxDecrementRetries <= 0 {
		return fmt.Errorf("allocation.max_decrement_retries must be positive, got %d", c.Allocation.MaxDecrementRetries)
	}
	if c.Commission.Rate.IsNegative() || c.Commission.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("commission.rate must be between 0 and 1, got %s", c.Commission.Rate)
	}
	if c.Commission.ProfitPerOrder.IsNegative() {
		return fmt.Errorf("commission.profit_per_order cannot be negative, got %s", c.Commission.ProfitPerOrder)
	}
	if c.Commission.ShippingPerUnit.IsNegative() {
		return fmt.Errorf("commission.shipping_per_unit cannot be negative, got %s", c.Commission.ShippingPerUnit)
	}
	return nil
}

// DSN builds the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// IsProduction reports whether the app runs in production mode
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}
