package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "postgres url", driver: "postgres", dsn: "postgres://u:p@localhost:5432/blog?sslmode=disable", want: "postgres://u:p@localhost:5432/blog?sslmode=disable"},
		{name: "postgres keyword dsn", driver: "postgres", dsn: "host=localhost user=u dbname=blog", wantErr: true},
		{name: "mysql dsn", driver: "mysql", dsn: "u:p@tcp(localhost:3306)/blog?parseTime=true", want: "mysql://u:p@tcp(localhost:3306)/blog?parseTime=true"},
		{name: "mysql url", driver: "mysql", dsn: "mysql://u:p@tcp(db)/blog", want: "mysql://u:p@tcp(db)/blog"},
		{name: "sqlite path", driver: "sqlite", dsn: "storage/blog.db", want: "sqlite3://storage/blog.db"},
		{name: "sqlite file uri", driver: "sqlite", dsn: "file:blog.db", want: "sqlite3://blog.db"},
		{name: "empty", driver: "postgres", dsn: "", wantErr: true},
		{name: "unknown driver", driver: "oracle", dsn: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := migrateURL(tt.driver, tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStepsArg(t *testing.T) {
	n, err := stepsArg(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = stepsArg([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = stepsArg([]string{"0"})
	assert.Error(t, err)
	_, err = stepsArg([]string{"x"})
	assert.Error(t, err)
}
