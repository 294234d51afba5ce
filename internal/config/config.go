package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joacominatel/perruls/internal/database"
)

// Config represents the application configuration.
type Config struct {
	Database    Connection   `mapstructure:"database" yaml:"database"`
	Connections []Connection `mapstructure:"connections" yaml:"connections"`
	Preferences Preferences  `mapstructure:"preferences" yaml:"preferences"`
	API         API          `mapstructure:"api" yaml:"api"`
}

// Connection is a database target. Saved profiles never carry the
// password in the file; it lives in the OS keyring.
type Connection struct {
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database string `mapstructure:"database" yaml:"database"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"-"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode,omitempty"`
}

// Preferences holds user preferences.
type Preferences struct {
	Theme             string `mapstructure:"theme" yaml:"theme"`
	DefaultConnection string `mapstructure:"default_connection" yaml:"default_connection"`
	PageSize          int    `mapstructure:"page_size" yaml:"page_size"`
}

// API configures the read-only REST server.
type API struct {
	Listen         string   `mapstructure:"listen" yaml:"listen"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Params converts the connection into driver parameters.
func (c Connection) Params() database.ConnParams {
	return database.ConnParams{
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		User:     c.Username,
		Password: c.Password,
		SSLMode:  c.SSLMode,
	}
}

// FromParams builds a named connection from driver parameters.
func FromParams(p database.ConnParams) Connection {
	conn := Connection{
		Host:     p.Host,
		Port:     p.Port,
		Database: p.Database,
		Username: p.User,
		Password: p.Password,
		SSLMode:  p.SSLMode,
	}
	conn.Name = conn.DefaultName()
	return conn
}

// DefaultName derives a profile name from the target.
func (c Connection) DefaultName() string {
	return fmt.Sprintf("%s@%s-%d-%s", c.Username, c.Host, c.Port, c.Database)
}

// DisplayString returns a human-readable summary of the connection.
func (c Connection) DisplayString() string {
	s := c.Host
	if c.Port > 0 {
		s += ":" + strconv.Itoa(c.Port)
	}
	s += "/" + c.Database
	if c.Username != "" {
		s = c.Username + "@" + s
	}
	return s
}

// ParseDSN parses a postgres:// connection string into a Connection.
func ParseDSN(dsn string) (Connection, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Connection{}, fmt.Errorf("invalid DSN: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Connection{}, fmt.Errorf("invalid DSN: unsupported scheme %q", u.Scheme)
	}

	conn := Connection{
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),
	}

	if u.User != nil {
		conn.Username = u.User.Username()
		if p, ok := u.User.Password(); ok {
			conn.Password = p
		}
	}

	conn.Port = database.DefaultPort
	if portStr := u.Port(); portStr != "" {
		conn.Port, err = database.ParsePort(portStr)
		if err != nil {
			return Connection{}, fmt.Errorf("invalid DSN: %w", err)
		}
	}

	conn.Name = conn.DefaultName()
	return conn, nil
}

// FindConnection returns the saved profile with the given name.
func (cfg *Config) FindConnection(name string) (Connection, bool) {
	for _, c := range cfg.Connections {
		if c.Name == name {
			return c, true
		}
	}
	return Connection{}, false
}

// AddConnection appends a connection, or replaces the one with the same name.
func (cfg *Config) AddConnection(conn Connection) {
	for i := range cfg.Connections {
		if cfg.Connections[i].Name == conn.Name {
			cfg.Connections[i] = conn
			return
		}
	}
	cfg.Connections = append(cfg.Connections, conn)
}
