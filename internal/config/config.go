package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/bookshelf-paginate/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Storage    StorageConfig       `mapstructure:"storage"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
	HTTP       HTTPConfig          `mapstructure:"http"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
}

// PostgresConfig holds connection and pool settings. Durations are in seconds.
type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"min=1,max=65535"`
	User              string `mapstructure:"user" validate:"required"`
	Password          string `mapstructure:"password" validate:"required"`
	DBName            string `mapstructure:"dbname" validate:"required"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"min=1"`
	MinConns          int32  `mapstructure:"min_conns" validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime" validate:"min=0"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time" validate:"min=0"`
	HealthCheckPeriod int    `mapstructure:"health_check_period" validate:"min=0"`
}

// StorageConfig picks the query layer repositories are built on.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=pgx gorm"`
}

// PaginationConfig tunes list endpoints. MaxLimit 0 disables the cap; Strict
// makes page and limit values below 1 fall back to their defaults.
type PaginationConfig struct {
	Strict   bool `mapstructure:"strict"`
	MaxLimit int  `mapstructure:"max_limit" validate:"min=0"`
}

// HTTPConfig timeouts are in seconds.
type HTTPConfig struct {
	Addr            string   `mapstructure:"addr" validate:"required"`
	ReadTimeout     int      `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    int      `mapstructure:"write_timeout" validate:"min=0"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout" validate:"min=1"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

// Validate checks every section except logger, which validates itself in logger.New.
func (c *Config) Validate() error {
	v := validator.New()
	for name, section := range map[string]any{
		"app":        c.App,
		"postgres":   c.Postgres,
		"storage":    c.Storage,
		"pagination": c.Pagination,
		"http":       c.HTTP,
	} {
		if err := v.Struct(section); err != nil {
			return fmt.Errorf("invalid %s config: %w", name, err)
		}
	}
	return nil
}
