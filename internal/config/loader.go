package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configDir  = ".perruls"
	configFile = "config"
	configType = "yaml"
)

// Environment variables understood by the original deployment.
var envBindings = map[string]string{
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.database": "DB_NAME",
	"database.username": "DB_USER",
	"database.password": "DB_PASS",
	"database.sslmode":  "DB_SSLMODE",
	"api.listen":        "PERRULS_API_LISTEN",
}

// Dir returns ~/.perruls.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// LoadFrom reads config.yaml from dir, applies defaults and environment
// overrides, then fills saved profile passwords from the keyring. An
// unreachable keyring is logged and leaves those passwords empty.
func LoadFrom(dir string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := newViper(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	for i := range cfg.Connections {
		if cfg.Connections[i].Password != "" {
			continue
		}
		pw, err := LookupPassword(cfg.Connections[i].Name)
		if err != nil {
			logger.Warn("keyring lookup failed",
				slog.String("profile", cfg.Connections[i].Name),
				slog.Any("error", err))
			continue
		}
		cfg.Connections[i].Password = pw
	}

	return cfg, nil
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFile)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "perruls")
	v.SetDefault("database.username", "perruls")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("preferences.theme", "default")
	v.SetDefault("preferences.page_size", 100)
	v.SetDefault("api.listen", ":8000")
	v.SetDefault("api.allowed_origins", []string{"*"})

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

// SaveTo writes cfg to dir/config.yaml. Profile passwords go to the keyring.
func SaveTo(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	profiles := make([]map[string]any, 0, len(cfg.Connections))
	for _, c := range cfg.Connections {
		if c.Password != "" {
			if err := StorePassword(c.Name, c.Password); err != nil {
				return fmt.Errorf("keyring: %w", err)
			}
		}
		profile := connectionMap(c)
		profile["name"] = c.Name
		profiles = append(profiles, profile)
	}

	v := viper.New()
	v.Set("database", connectionMap(cfg.Database))
	v.Set("connections", profiles)
	v.Set("preferences", map[string]any{
		"theme":              cfg.Preferences.Theme,
		"default_connection": cfg.Preferences.DefaultConnection,
		"page_size":          cfg.Preferences.PageSize,
	})
	v.Set("api", map[string]any{
		"listen":          cfg.API.Listen,
		"allowed_origins": cfg.API.AllowedOrigins,
	})

	path := filepath.Join(dir, configFile+"."+configType)
	return v.WriteConfigAs(path)
}

// connectionMap is the on-disk shape of a connection, without its password.
func connectionMap(c Connection) map[string]any {
	return map[string]any{
		"host":     c.Host,
		"port":     c.Port,
		"database": c.Database,
		"username": c.Username,
		"sslmode":  c.SSLMode,
	}
}

// SaveConnection records a successful connection as a profile in
// dir/config.yaml.
func SaveConnection(dir string, cfg *Config, conn Connection) error {
	cfg.AddConnection(conn)
	return SaveTo(dir, cfg)
}

// DefaultConnection returns the preferred saved profile, the first one, or
// the environment-configured database when there are no profiles.
func DefaultConnection(cfg *Config) Connection {
	if len(cfg.Connections) == 0 {
		return cfg.Database
	}

	if conn, ok := cfg.FindConnection(cfg.Preferences.DefaultConnection); ok {
		return conn
	}

	return cfg.Connections[0]
}
