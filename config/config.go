package config

import (
	"fmt"
	"time"

	"github.com/evilsocket/islazy/fs"
	"github.com/evilsocket/islazy/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/namepage/namepage/models"
)

const (
	DialectMemory = "memory"
	DialectSQLite = "sqlite3"
	DialectMySQL  = "mysql"
)

type Database struct {
	Dialect  string `mapstructure:"db_dialect"`
	Path     string `mapstructure:"db_path"`
	Host     string `mapstructure:"db_host"`
	Port     string `mapstructure:"db_port"`
	User     string `mapstructure:"db_user"`
	Password string `mapstructure:"db_password"`
	Name     string `mapstructure:"db_name"`
}

// URL returns the gorm connection string for the configured dialect.
func (db Database) URL() string {
	if db.Dialect == DialectMySQL {
		return models.MySQLURL(db.User, db.Password, db.Host, db.Port, db.Name)
	}
	return db.Path
}

type Config struct {
	Address         string        `mapstructure:"address"`
	Secret          string        `mapstructure:"api_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	RateLimitQuota  int           `mapstructure:"rate_limit_quota"`
	MessageMaxAge   time.Duration `mapstructure:"message_max_age"`
	SeedFile        string        `mapstructure:"seed_file"`
	Database        Database      `mapstructure:",squash"`
}

var defaults = map[string]interface{}{
	"address":           "0.0.0.0:8666",
	"api_secret":        "",
	"token_ttl":         "30m",
	"rate_limit_window": "60s",
	"rate_limit_quota":  5,
	"message_max_age":   "5m",
	"seed_file":         "",
	"db_dialect":        DialectMemory,
	"db_path":           "namepage.db",
	"db_host":           "127.0.0.1",
	"db_port":           "3306",
	"db_user":           "",
	"db_password":       "",
	"db_name":           "namepage",
}

// Load reads envFile into the environment, if it exists, then builds the
// configuration from the environment on top of the defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" && fs.Exists(envFile) {
		log.Debug("loading %s ...", envFile)
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading %s: %v", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		// AutomaticEnv alone does not make Unmarshal see env-only keys
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %v", err)
	}

	return &cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	switch cfg.Database.Dialect {
	case DialectMemory, DialectSQLite, DialectMySQL:
	default:
		return fmt.Errorf("unsupported DB_DIALECT '%s'", cfg.Database.Dialect)
	}

	if cfg.RateLimitQuota <= 0 {
		return fmt.Errorf("RATE_LIMIT_QUOTA must be positive, got %d", cfg.RateLimitQuota)
	} else if cfg.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimitWindow)
	} else if cfg.MessageMaxAge <= 0 {
		return fmt.Errorf("MESSAGE_MAX_AGE must be positive, got %s", cfg.MessageMaxAge)
	}

	return nil
}
