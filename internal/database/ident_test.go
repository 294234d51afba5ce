package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "safe lowercase", input: "sucursal", expected: "sucursal"},
		{name: "underscore and digits", input: "mascota_2024", expected: "mascota_2024"},
		{name: "mixed case is quoted", input: "Mascota", expected: `"Mascota"`},
		{name: "dash is quoted", input: "tabla-x", expected: `"tabla-x"`},
		{name: "leading digit is quoted", input: "1tabla", expected: `"1tabla"`},
		{name: "no cased letters is quoted", input: "_1", expected: `"_1"`},
		{name: "accented lowercase stays bare", input: "vacunación", expected: "vacunación"},
		{name: "empty", input: "", wantErr: true},
		{name: "space", input: "Mi Tabla", wantErr: true},
		{name: "double quote", input: `a"b`, wantErr: true},
		{name: "single quote", input: "a'b", wantErr: true},
		{name: "semicolon", input: "sucursal;drop", wantErr: true},
		{name: "backtick", input: "a`b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteIdentifier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var identErr *ErrInvalidIdentifier
				assert.True(t, errors.As(err, &identErr))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
