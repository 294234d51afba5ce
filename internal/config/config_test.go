package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestLoadFrom_Defaults(t *testing.T) {
	keyring.MockInit()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}

	cfg, err := LoadFrom(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "perruls", cfg.Database.Database)
	assert.Equal(t, "perruls", cfg.Database.Username)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 100, cfg.Preferences.PageSize)
	assert.Equal(t, ":8000", cfg.API.Listen)
	assert.Equal(t, []string{"*"}, cfg.API.AllowedOrigins)
	assert.Empty(t, cfg.Connections)
}

func TestLoadFrom_Environment(t *testing.T) {
	keyring.MockInit()
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "refugio")
	t.Setenv("DB_USER", "vet")
	t.Setenv("DB_PASS", "s3cret")

	cfg, err := LoadFrom(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, database.ConnParams{
		Host:     "db.internal",
		Port:     6543,
		Database: "refugio",
		User:     "vet",
		Password: "s3cret",
		SSLMode:  "disable",
	}, cfg.Database.Params())
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("connections: [\n"), 0o600))

	_, err := LoadFrom(dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestSaveTo_PasswordGoesToKeyring(t *testing.T) {
	keyring.MockInit()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	dir := t.TempDir()

	cfg := &Config{
		Database: Connection{Host: "db.local", Port: 5433, Database: "refugio", Username: "vet", Password: "envpass"},
		Connections: []Connection{{
			Name:     "local",
			Host:     "localhost",
			Port:     5432,
			Database: "perruls",
			Username: "perruls",
			Password: "hunter2",
		}},
		Preferences: Preferences{Theme: "default", PageSize: 50},
		API:         API{Listen: ":9000", AllowedOrigins: []string{"*"}},
	}
	require.NoError(t, SaveTo(dir, cfg))

	raw, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")
	assert.NotContains(t, string(raw), "envpass")

	pw, err := LookupPassword("local")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)

	loaded, err := LoadFrom(dir, nil)
	require.NoError(t, err)
	require.Len(t, loaded.Connections, 1)
	assert.Equal(t, "hunter2", loaded.Connections[0].Password)
	assert.Equal(t, 50, loaded.Preferences.PageSize)
	assert.Equal(t, ":9000", loaded.API.Listen)
	assert.Equal(t, "db.local", loaded.Database.Host)
	assert.Equal(t, 5433, loaded.Database.Port)
	assert.Empty(t, loaded.Database.Password)
}

func TestLoadFrom_KeyringUnavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: session bus not available"))
	t.Cleanup(keyring.MockInit)

	dir := t.TempDir()
	yaml := "connections:\n  - name: local\n    host: localhost\n    port: 5432\n    database: perruls\n    username: perruls\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadFrom(dir, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, cfg.Connections, 1)
	assert.Equal(t, "localhost", cfg.Connections[0].Host)
	assert.Empty(t, cfg.Connections[0].Password)
}

func TestSaveConnection_WritesToDir(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	cfg := &Config{Preferences: Preferences{PageSize: 100}}

	conn := Connection{Name: "refugio", Host: "db.local", Port: 5432, Database: "refugio", Username: "vet", Password: "pw"}
	require.NoError(t, SaveConnection(dir, cfg, conn))

	loaded, err := LoadFrom(dir, nil)
	require.NoError(t, err)
	found, ok := loaded.FindConnection("refugio")
	require.True(t, ok)
	assert.Equal(t, "db.local", found.Host)
	assert.Equal(t, "pw", found.Password)
}

func TestLookupPassword_Missing(t *testing.T) {
	keyring.MockInit()

	pw, err := LookupPassword("nobody")
	require.NoError(t, err)
	assert.Empty(t, pw)
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    Connection
		wantErr bool
	}{
		{
			name: "full",
			dsn:  "postgres://vet:pw@db:6543/refugio?sslmode=require",
			want: Connection{
				Name:     "vet@db-6543-refugio",
				Host:     "db",
				Port:     6543,
				Database: "refugio",
				Username: "vet",
				Password: "pw",
				SSLMode:  "require",
			},
		},
		{
			name: "default port",
			dsn:  "postgresql://vet@db/refugio",
			want: Connection{
				Name:     "vet@db-5432-refugio",
				Host:     "db",
				Port:     5432,
				Database: "refugio",
				Username: "vet",
			},
		},
		{name: "wrong scheme", dsn: "mysql://db/refugio", wantErr: true},
		{name: "bad port", dsn: "postgres://db:abc/refugio", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDSN(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultConnection(t *testing.T) {
	env := Connection{Host: "env"}
	a := Connection{Name: "a"}
	b := Connection{Name: "b"}

	assert.Equal(t, env, DefaultConnection(&Config{Database: env}))
	assert.Equal(t, a, DefaultConnection(&Config{Database: env, Connections: []Connection{a, b}}))
	assert.Equal(t, b, DefaultConnection(&Config{
		Connections: []Connection{a, b},
		Preferences: Preferences{DefaultConnection: "b"},
	}))
}

func TestAddConnection_ReplacesByName(t *testing.T) {
	cfg := &Config{}
	cfg.AddConnection(Connection{Name: "a", Host: "one"})
	cfg.AddConnection(Connection{Name: "a", Host: "two"})

	require.Len(t, cfg.Connections, 1)
	assert.Equal(t, "two", cfg.Connections[0].Host)

	found, ok := cfg.FindConnection("a")
	assert.True(t, ok)
	assert.Equal(t, "two", found.Host)
	_, ok = cfg.FindConnection("b")
	assert.False(t, ok)
}

func TestFromParams(t *testing.T) {
	conn := FromParams(database.ConnParams{Host: "h", Port: 1, Database: "d", User: "u", Password: "p"})
	assert.Equal(t, "u@h-1-d", conn.Name)
	assert.Equal(t, "u@h:1/d", conn.DisplayString())
}
