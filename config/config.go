package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Mirror   MirrorConfig   `mapstructure:"mirror"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// LedgerConfig holds the ledger business-policy knobs.
type LedgerConfig struct {
	// StartingBalance is credited to every new account at registration.
	StartingBalance string `mapstructure:"starting_balance"`
	DefaultCurrency string `mapstructure:"default_currency"`
	// AutoApproveWithdrawals completes withdrawals at creation time once the
	// balance is reserved. When false, withdrawals queue as pending and an
	// administrator decision settles them.
	AutoApproveWithdrawals bool `mapstructure:"auto_approve_withdrawals"`
	// AutoApproveVerifications approves identity documents without review.
	AutoApproveVerifications bool `mapstructure:"auto_approve_verifications"`
}

// StartingBalanceDecimal parses the configured starting balance.
func (l LedgerConfig) StartingBalanceDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(l.StartingBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing ledger.starting_balance %q: %w", l.StartingBalance, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("ledger.starting_balance must not be negative: %s", l.StartingBalance)
	}
	return d, nil
}

// MirrorConfig controls the best-effort remote mirror.
type MirrorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Timeout bounds each mirror write so it cannot stall the primary path.
	Timeout time.Duration `mapstructure:"timeout"`
}

// AdminConfig holds the bootstrap administrator credentials.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: IVL_ (Invest Ledger).
// Nested keys use underscore: IVL_DATABASE_HOST, IVL_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "invest_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "invest-ledger")
	v.SetDefault("ledger.starting_balance", "0")
	v.SetDefault("ledger.default_currency", "EUR")
	v.SetDefault("ledger.auto_approve_withdrawals", true)
	v.SetDefault("ledger.auto_approve_verifications", false)
	v.SetDefault("mirror.enabled", true)
	v.SetDefault("mirror.timeout", "2s")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: IVL_DATABASE_HOST -> database.host
	v.SetEnvPrefix("IVL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if _, err := cfg.Ledger.StartingBalanceDecimal(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
