package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// DefaultPort is the PostgreSQL port used when none is configured.
const DefaultPort = 5432

// ConnParams describes a single database connection.
type ConnParams struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// Validate checks the parameters that can be rejected without a round trip.
func (p ConnParams) Validate() error {
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("invalid port %d", p.Port)
	}
	return nil
}

// DSN builds a postgres:// URL. User and password are escaped.
func (p ConnParams) DSN() string {
	host := p.Host
	if host == "" {
		host = "localhost"
	}
	port := p.Port
	if port == 0 {
		port = DefaultPort
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + p.Database,
	}
	if p.User != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.User, p.Password)
		} else {
			u.User = url.User(p.User)
		}
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {p.SSLMode}}.Encode()
	}
	return u.String()
}

// Display returns "db@host:port as user", without the password.
func (p ConnParams) Display() string {
	s := fmt.Sprintf("%s@%s:%d", p.Database, p.Host, p.Port)
	if p.User != "" {
		s += " as " + p.User
	}
	return s
}

// ParsePort converts form input into a port number.
func ParsePort(s string) (int, error) {
	if s == "" {
		return DefaultPort, nil
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("port must be numeric")
	}
	return port, nil
}
