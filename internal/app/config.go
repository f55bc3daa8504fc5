package app

import (
	"flag"
	"net/url"
	"os"
	"time"
)

type Config struct {
	RunAddress     string
	DatabaseURI    string
	LogLevel       string
	MigrationsPath string
	SessionTTL     time.Duration
	ReapInterval   time.Duration
}

func NewConfigFromFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "Server address (env: RUN_ADDRESS)")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "Database URI (env: DATABASE_URI)")
	flag.StringVar(&cfg.LogLevel, "l", "debug", "Log level (debug|info|warn|error) (env: LOG_LEVEL)")
	flag.StringVar(&cfg.MigrationsPath, "migrations", "./migrations", "Path to migrations folder (env: MIGRATIONS_PATH)")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", 10*time.Minute, "Session lifetime before reaping (env: SESSION_TTL)")
	flag.DurationVar(&cfg.ReapInterval, "reap-interval", 10*time.Minute, "Interval between session sweeps (env: REAP_INTERVAL)")
	flag.Parse()

	cfg.applyEnvVars()
	cfg.validate()

	return cfg
}

func (c *Config) applyEnvVars() {
	if envAddr := os.Getenv("RUN_ADDRESS"); envAddr != "" {
		c.RunAddress = envAddr
	}
	if envDB := os.Getenv("DATABASE_URI"); envDB != "" {
		c.DatabaseURI = envDB
	}
	if envLogLevel := os.Getenv("LOG_LEVEL"); envLogLevel != "" {
		c.LogLevel = envLogLevel
	}
	if envMigrations := os.Getenv("MIGRATIONS_PATH"); envMigrations != "" {
		c.MigrationsPath = envMigrations
	}
	if envTTL := os.Getenv("SESSION_TTL"); envTTL != "" {
		if ttl, err := time.ParseDuration(envTTL); err == nil {
			c.SessionTTL = ttl
		}
	}
	if envInterval := os.Getenv("REAP_INTERVAL"); envInterval != "" {
		if interval, err := time.ParseDuration(envInterval); err == nil {
			c.ReapInterval = interval
		}
	}
}

func (c *Config) validate() {
	if c.DatabaseURI == "" {
		panic("Database URI is required (use -d flag or DATABASE_URI env)")
	}
}

func (c *Config) MaskDBPassword() string {
	u, err := url.Parse(c.DatabaseURI)
	if err != nil {
		return c.DatabaseURI
	}

	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
