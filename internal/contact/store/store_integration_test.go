//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"contactbook/pkg/testutil/containers"
)

func TestSQLStore_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.NewPostgresContainer(t)

	for _, driver := range []string{DriverPgx, DriverPostgres} {
		t.Run(driver, func(t *testing.T) {
			db, err := sql.Open(driver, pg.DSN)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			s := NewSQL(db, driver)
			require.NoError(t, s.Migrate(context.Background()))
			_, err = db.Exec(`DELETE FROM contact_phones`)
			require.NoError(t, err)
			_, err = db.Exec(`DELETE FROM contacts`)
			require.NoError(t, err)

			exerciseGateway(t, s)
		})
	}
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(context.Background()))

	exerciseGateway(t, NewRedis(rc.Client, "contactbook:test"))
}
