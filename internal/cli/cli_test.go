package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/joacominatel/perruls/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	mock   sqlmock.Sqlmock
	dsn    string
	opened int
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// execute runs the command tree against a sqlmock connection.
func execute(t *testing.T, openErr error, setup func(sqlmock.Sqlmock), args ...string) (*harness, error) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	if setup != nil {
		setup(mock)
	}

	h := &harness{mock: mock, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	root := NewRootCmd(Options{
		Open: func(_ context.Context, dsn string) (*sql.DB, error) {
			h.opened++
			h.dsn = dsn
			if openErr != nil {
				return nil, openErr
			}
			return db, nil
		},
	})
	root.SetOut(h.out)
	root.SetErr(h.errOut)
	root.SetArgs(append([]string{"--config", t.TempDir()}, args...))

	err = root.ExecuteContext(context.Background())
	return h, err
}

func petRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"chip_id", "nombre_mascota"}).
		AddRow("A1", "Firulais").
		AddRow("B2", nil).
		AddRow("C3", "Luna")
}

func TestQuery_PrintsRequestedPage(t *testing.T) {
	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery(regexp.QuoteMeta("SELECT * FROM mascota")).WillReturnRows(petRows())
	}, "query", "SELECT * FROM mascota", "--page-size", "2", "--page", "2")
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, "chip_id")
	assert.NotContains(t, out, "CHIP_ID")
	assert.Contains(t, out, "Luna")
	assert.NotContains(t, out, "Firulais")
	assert.Contains(t, out, "Page 2 of 2 · 3 rows")
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestQuery_PageIsClamped(t *testing.T) {
	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("SELECT").WillReturnRows(petRows())
	}, "query", "SELECT * FROM mascota", "--page", "99")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "Page 1 of 1 · 3 rows")
	assert.Contains(t, h.out.String(), "NULL")
}

func TestQuery_PageSizeIsCoerced(t *testing.T) {
	tests := []struct {
		name string
		size string
		want string
	}{
		{"zero becomes one", "0", "Page 1 of 3 · 3 rows"},
		{"negative becomes one", "-5", "Page 1 of 3 · 3 rows"},
		{"non-numeric uses default", "abc", "Page 1 of 1 · 3 rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT").WillReturnRows(petRows())
			}, "query", "SELECT * FROM mascota", "--page-size="+tt.size)
			require.NoError(t, err)

			assert.Contains(t, h.out.String(), tt.want)
		})
	}
}

func TestQuery_ExportAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mascotas.csv")

	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("SELECT").WillReturnRows(petRows())
	}, "query", "SELECT * FROM mascota", "--page-size", "1", "--csv", path, "--all")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chip_id,nombre_mascota\nA1,Firulais\nB2,\nC3,Luna\n", string(raw))
	assert.Contains(t, h.out.String(), "Exported 3 rows to "+path)
}

func TestQuery_ExportPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.csv")

	_, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("SELECT").WillReturnRows(petRows())
	}, "query", "SELECT * FROM mascota", "--page-size", "2", "--page", "2", "--csv", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chip_id,nombre_mascota\nC3,Luna\n", string(raw))
}

func TestQuery_StatementWithoutRows(t *testing.T) {
	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("UPDATE").WillReturnRows(sqlmock.NewRows(nil))
	}, "query", "UPDATE mascota SET raza = 'x'")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "OK (")
}

func TestQuery_BackendError(t *testing.T) {
	_, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("SELEC").WillReturnError(errors.New(`syntax error at or near "SELEC"`))
	}, "query", "SELEC 1")

	var qe *app.ErrQuery
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, `query error: syntax error at or near "SELEC"`, err.Error())
}

func TestConnectionFailure(t *testing.T) {
	_, err := execute(t, errors.New(`FATAL: password authentication failed for user "perruls"`), nil, "tables")

	var ce *app.ErrConnection
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "password authentication failed")
}

func TestTables(t *testing.T) {
	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("information_schema.tables").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("mascota").AddRow("vacuna"))
	}, "tables")
	require.NoError(t, err)

	assert.Equal(t, "mascota\nvacuna\n", h.out.String())
}

func TestSchema(t *testing.T) {
	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("information_schema.columns").
			WithArgs("mascota").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default"}).
				AddRow("chip_id", "character varying", "NO", nil))
	}, "schema", "mascota")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "character varying")
}

func TestBrowse(t *testing.T) {
	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery(regexp.QuoteMeta("SELECT * FROM mascota ORDER BY 1")).WillReturnRows(petRows())
	}, "browse", "mascota")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "Firulais")
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestBrowse_InvalidIdentifier(t *testing.T) {
	h, err := execute(t, nil, nil, "browse", "mascota; DROP TABLE x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid identifier")
	assert.NoError(t, h.mock.ExpectationsWereMet())
}

func TestReport_List(t *testing.T) {
	h, err := execute(t, nil, nil, "report")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "stock-critico")
	assert.Contains(t, h.out.String(), "title")
	assert.Zero(t, h.opened)
}

func TestReport_Errors(t *testing.T) {
	_, err := execute(t, nil, nil, "report", "nope")
	assert.EqualError(t, err, `unknown report "nope"`)

	_, err = execute(t, nil, nil, "report", "stock-critico", "extra")
	assert.EqualError(t, err, `report "stock-critico" takes 0 argument(s), got 1`)
}

func TestConnectionFlags(t *testing.T) {
	t.Setenv("DB_PASS", "")

	h, err := execute(t, nil, func(m sqlmock.Sqlmock) {
		m.ExpectQuery("information_schema.tables").WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	}, "tables", "--host", "db.example", "--port", "6543", "--db", "refugio", "--user", "vet")
	require.NoError(t, err)

	assert.Contains(t, h.dsn, "vet@db.example:6543/refugio")
}

func TestConnectionFlags_BadPort(t *testing.T) {
	h, err := execute(t, nil, nil, "tables", "--port", "abc")

	var ce *app.ErrConfig
	require.ErrorAs(t, err, &ce)
	assert.Zero(t, h.opened)
}
