package duckdb

import (
	"testing"

	"github.com/inovexcorp/d2rq/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSource(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"jdbc:duckdb:/data/warehouse.duckdb", "/data/warehouse.duckdb"},
		{"jdbc:duckdb:", ""},
		{"duckdb::memory:", ""},
		{"warehouse.duckdb", "warehouse.duckdb"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := dataSource(tt.url, "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelfRegistration(t *testing.T) {
	d, ok := driver.Available().Lookup("org.duckdb.DuckDBDriver")
	require.True(t, ok)
	assert.Equal(t, "duckdb", d.Dialect)
}
