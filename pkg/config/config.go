package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// default upstream per environment
var apiURLs = map[Environment]string{
	EnvDevelopment: "http://localhost:8000",
	EnvProduction:  "https://chainguardian-api.onrender.com",
}

type Config struct {
	Env Environment

	// Upstream API
	APIURL         string
	PollInterval   time.Duration
	RequestTimeout time.Duration // bound on one refresh cycle (all three fetches)
	TxLimit        int
	AlertLimit     int

	// Dashboard
	DashboardPort int

	// Logging
	LogLevel  string
	LogFormat string // console|json
	LogFile   string // used while the terminal UI owns stderr

	// Wallet stub
	WalletConnectDelay time.Duration
	WalletAccount      string
	ChainID            int64
	ContractAddress    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := Environment(envOr("APP_ENV", string(EnvDevelopment)))
	if _, ok := apiURLs[env]; !ok {
		return nil, fmt.Errorf("unknown APP_ENV %q (want development or production)", env)
	}

	cfg := &Config{
		Env:            env,
		APIURL:         envOr("API_URL", envOr("REACT_APP_API_URL", apiURLs[env])),
		PollInterval:   envDuration("POLL_INTERVAL", 30*time.Second),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 10*time.Second),
		TxLimit:        envInt("TX_LIMIT", 20),
		AlertLimit:     envInt("ALERT_LIMIT", 20),

		DashboardPort: envInt("DASHBOARD_PORT", 3000),

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "console")),
		LogFile:   envOr("LOG_FILE", "guardian.log"),

		WalletConnectDelay: envDuration("WALLET_CONNECT_DELAY", time.Second),
		WalletAccount:      envOr("WALLET_ACCOUNT", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"),
		ChainID:            int64(envInt("CHAIN_ID", 80001)), // Mumbai testnet
		ContractAddress:    envOr("CONTRACT_ADDRESS", "0xYourContractAddress"),
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_URL %q: must be an absolute http(s) URL", c.APIURL)
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("invalid POLL_INTERVAL %s: must be at least 1s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT %s: must be positive", c.RequestTimeout)
	}
	if c.TxLimit < 1 || c.TxLimit > 1000 {
		return fmt.Errorf("invalid TX_LIMIT %d: must be between 1 and 1000", c.TxLimit)
	}
	if c.AlertLimit < 1 || c.AlertLimit > 1000 {
		return fmt.Errorf("invalid ALERT_LIMIT %d: must be between 1 and 1000", c.AlertLimit)
	}
	if c.DashboardPort < 1 || c.DashboardPort > 65535 {
		return fmt.Errorf("invalid DASHBOARD_PORT %d: must be between 1 and 65535", c.DashboardPort)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: must be console or json", c.LogFormat)
	}
	if c.WalletConnectDelay < 0 {
		return fmt.Errorf("invalid WALLET_CONNECT_DELAY %s: must not be negative", c.WalletConnectDelay)
	}
	return nil
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// envDuration accepts Go durations ("15s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
