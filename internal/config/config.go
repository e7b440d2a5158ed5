package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed networks.yaml
var defaultNetworks []byte

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	Network      string `env:"SUI_NETWORK" envDefault:"testnet"`
	NetworksFile string `env:"NETWORKS_FILE"`
	RPCURL       string `env:"SUI_RPC_URL"`
	DashboardID  string `env:"DASHBOARD_ID"`
	PackageID    string `env:"PACKAGE_ID"`

	AggregatorURL  string `env:"WALRUS_AGGREGATOR_URL"`
	PublisherURL   string `env:"WALRUS_PUBLISHER_URL"`
	WalrusEpochs   int    `env:"WALRUS_EPOCHS" envDefault:"5"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	RPCTimeout        time.Duration `env:"RPC_TIMEOUT" envDefault:"15s"`
	RPCMaxAttempts    uint          `env:"RPC_MAX_ATTEMPTS" envDefault:"4"`
	RPCInitialBackoff time.Duration `env:"RPC_INITIAL_BACKOFF" envDefault:"200ms"`
	RPCMaxBackoff     time.Duration `env:"RPC_MAX_BACKOFF" envDefault:"3s"`
	RPCBatchSize      int           `env:"RPC_BATCH_SIZE" envDefault:"50"`
	GasBudget         uint64        `env:"GAS_BUDGET" envDefault:"100000000"`

	JournalBackend string `env:"JOURNAL_BACKEND" envDefault:"memory"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         string `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"devfolio"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"devfolio_dev_password"`
	DBName         string `env:"DB_NAME" envDefault:"devfolio"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	ChallengeTTL time.Duration `env:"CHALLENGE_TTL" envDefault:"5m"`
	CORSOrigin   string        `env:"CORS_ORIGIN" envDefault:"*"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
	OTELEndpoint   string `env:"OTEL_ENDPOINT"`

	// Chain is the resolved network preset with env overrides applied.
	Chain Network
}

// Network is one entry of the networks file.
type Network struct {
	RPCURL        string `yaml:"rpc_url"`
	DashboardID   string `yaml:"dashboard_id"`
	PackageID     string `yaml:"package_id"`
	AggregatorURL string `yaml:"aggregator_url"`
	PublisherURL  string `yaml:"publisher_url"`
	ExplorerURL   string `yaml:"explorer_url"`
}

type networksFile struct {
	Networks map[string]Network `yaml:"networks"`
}

// Load reads the environment, selects the network preset and applies
// per-field overrides.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	raw := defaultNetworks
	if cfg.NetworksFile != "" {
		data, err := os.ReadFile(cfg.NetworksFile)
		if err != nil {
			return nil, fmt.Errorf("reading networks file: %w", err)
		}
		raw = data
	}

	networks, err := ParseNetworks(raw)
	if err != nil {
		return nil, err
	}
	net, ok := networks[cfg.Network]
	if !ok {
		return nil, fmt.Errorf("unknown network %q", cfg.Network)
	}

	override(&net.RPCURL, cfg.RPCURL)
	override(&net.DashboardID, cfg.DashboardID)
	override(&net.PackageID, cfg.PackageID)
	override(&net.AggregatorURL, cfg.AggregatorURL)
	override(&net.PublisherURL, cfg.PublisherURL)
	cfg.Chain = net

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseNetworks decodes a networks YAML document.
func ParseNetworks(data []byte) (map[string]Network, error) {
	var f networksFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse networks: %w", err)
	}
	if len(f.Networks) == 0 {
		return nil, errors.New("parse networks: no networks defined")
	}
	return f.Networks, nil
}

// DefaultNetworks returns the built-in network presets.
func DefaultNetworks() (map[string]Network, error) {
	return ParseNetworks(defaultNetworks)
}

// DSN is the Postgres connection string for the transaction journal.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) validate() error {
	var errs []error
	if c.Chain.RPCURL == "" {
		errs = append(errs, errors.New("rpc url is required"))
	}
	if c.Chain.DashboardID == "" {
		errs = append(errs, errors.New("dashboard id is required"))
	}
	if c.Chain.PackageID == "" {
		errs = append(errs, errors.New("package id is required"))
	}
	if c.RPCMaxAttempts == 0 {
		errs = append(errs, errors.New("RPC_MAX_ATTEMPTS must be at least 1"))
	}
	if c.JournalBackend != "memory" && c.JournalBackend != "postgres" {
		errs = append(errs, fmt.Errorf("JOURNAL_BACKEND must be memory or postgres, got %q", c.JournalBackend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func override(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
