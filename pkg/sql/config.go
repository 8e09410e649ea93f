package lsql

import (
	"fmt"
	lconfig "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/config"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ghodss/yaml"
)

const (
	EngineSqlite   = "sqlite"
	EngineSqlite3  = "sqlite3"
	EnginePostgres = "postgres"

	defaultSqliteAddress = "experiments.db"
)

type Config struct {
	ConfigSecrets

	Engine          string        `env:"SQL_DB_ENGINE" envDefault:"sqlite"`
	DatabaseName    string        `env:"SQL_DB_NAME" envDefault:"experiments"`
	Address         string        `env:"SQL_DB_ADDRESS" envDefault:""`
	Options         string        `env:"SQL_DB_OPTIONS" envDefault:""`
	MaxLifetime     time.Duration `env:"SQL_DB_MAX_LIFETIME" envDefault:"30m"`
	MaxIdleConns    int           `env:"SQL_DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"SQL_DB_MAX_OPEN_CONNS" envDefault:"20"`
	BusyTimeout     time.Duration `env:"SQL_DB_BUSY_TIMEOUT" envDefault:"5s"`
	ConnectAttempts uint          `env:"SQL_DB_CONNECT_ATTEMPTS" envDefault:"5"`
	ConnectDelay    time.Duration `env:"SQL_DB_CONNECT_DELAY" envDefault:"1s"`
	ConfigLocation  string        `env:"SQL_DB_CONFIG_LOCATION"`
}

type ConfigSecrets struct {
	Username string `env:"SQL_DB_USERNAME" json:"username"`
	Password string `env:"SQL_DB_PASSWORD" json:"password"`
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ConfigLocation != "" {
		err = cfg.loadFile()
		if err != nil {
			return nil, err
		}
	}
	if _, err := cfg.DriverName(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DriverName maps the configured engine to the database/sql driver registered for it.
func (cfg *Config) DriverName() (string, error) {
	switch strings.ToLower(cfg.Engine) {
	case EngineSqlite:
		return "sqlite", nil
	case EngineSqlite3:
		return "sqlite3", nil
	case EnginePostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrDatabaseEngineNotSupported, cfg.Engine)
	}
}

func (cfg *Config) IsSqlite() bool {
	engine := strings.ToLower(cfg.Engine)
	return engine == EngineSqlite || engine == EngineSqlite3
}

func (cfg *Config) sqliteAddress() string {
	if cfg.Address != "" {
		return cfg.Address
	}
	return defaultSqliteAddress
}

// FullAddress is the data source name handed to the driver.
func (cfg *Config) FullAddress() string {
	busyMillis := cfg.BusyTimeout.Milliseconds()
	switch strings.ToLower(cfg.Engine) {
	case EngineSqlite:
		// transactions take the write lock up front so concurrent writers wait on busy_timeout
		params := url.Values{}
		params.Add("_pragma", "foreign_keys(1)")
		params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyMillis))
		params.Add("_txlock", "immediate")
		return withOptions(cfg.sqliteAddress()+"?"+params.Encode(), cfg.Options)
	case EngineSqlite3:
		params := url.Values{}
		params.Set("_foreign_keys", "1")
		params.Set("_busy_timeout", fmt.Sprintf("%d", busyMillis))
		params.Set("_txlock", "immediate")
		return withOptions(cfg.sqliteAddress()+"?"+params.Encode(), cfg.Options)
	case EnginePostgres:
		address := fmt.Sprintf("postgres://%s:%s@%s/%s",
			url.QueryEscape(cfg.Username),
			url.QueryEscape(cfg.Password),
			cfg.Address,
			cfg.DatabaseName)
		if cfg.Options != "" {
			address += "?" + cfg.Options
		}
		return address
	default:
		return ""
	}
}

func withOptions(address, options string) string {
	if options == "" {
		return address
	}
	return address + "&" + options
}

func (cfg *Config) loadFile() error {
	f, err := os.Open(cfg.ConfigLocation)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, &cfg.ConfigSecrets); err != nil {
		return err
	}

	return nil
}
