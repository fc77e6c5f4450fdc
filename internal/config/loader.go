package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bookshelf-paginate")
	v.SetDefault("app.version", "0.1.0")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("storage.driver", "pgx")

	v.SetDefault("pagination.strict", false)
	v.SetDefault("pagination.max_limit", 100)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10)
	v.SetDefault("http.write_timeout", 10)
	v.SetDefault("http.shutdown_timeout", 15)
	v.SetDefault("http.cors_origins", []string{"*"})
}

// Load reads the YAML file at path and applies APP_ prefixed env overrides.
// Postgres credentials also fall back to the stock POSTGRES_* and DB_* variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about, so secrets with no
	// default are bound explicitly.
	binds := map[string][]string{
		"postgres.user":     {"APP_POSTGRES_USER", "POSTGRES_USER", "DB_USER"},
		"postgres.password": {"APP_POSTGRES_PASSWORD", "POSTGRES_PASSWORD", "DB_PASSWORD"},
		"postgres.dbname":   {"APP_POSTGRES_DB", "POSTGRES_DB", "DB_NAME"},
	}
	for key, envs := range binds {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var missing []string
	for key := range binds {
		if v.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, errors.New("missing required settings: " + strings.Join(missing, ", "))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
