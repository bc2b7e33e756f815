package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"postgres://u:p@localhost:5432/proyecthub?sslmode=disable", "pgx5://u:p@localhost:5432/proyecthub?sslmode=disable", false},
		{"postgresql://localhost/db", "pgx5://localhost/db", false},
		{"pgx5://localhost/db", "pgx5://localhost/db", false},
		{"host=localhost user=u dbname=db", "", true},
	}
	for _, tc := range cases {
		got, err := migrateURL(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestMigrationFilesPaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestMigrate_UnknownDirection(t *testing.T) {
	err := Migrate("postgres://localhost/db", Direction("sideways"))
	assert.Error(t, err)
}
