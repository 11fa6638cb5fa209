package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"contactbook/internal/contact/models"
	"contactbook/pkg/platform/tx"
)

func openSQLite(t *testing.T) *SQLStore {
	t.Helper()
	db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewSQL(db, DriverSQLite)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLStore_SQLite(t *testing.T) {
	exerciseGateway(t, openSQLite(t))
}

func TestSQLStore_MigrateIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLStore_JoinsCallerTransaction(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	require.NoError(t, s.Save(ctx, sampleDirectory(t).Snapshot()))

	sqlTx, err := s.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	txCtx := tx.WithTx(ctx, sqlTx)
	require.NoError(t, s.Save(txCtx, models.EmptySnapshot()))

	inside, err := s.Load(txCtx)
	require.NoError(t, err)
	assert.Empty(t, inside.Contacts)

	require.NoError(t, sqlTx.Rollback())

	after, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, after.Contacts, 3)
}

func TestSQLStore_UnmigratedFails(t *testing.T) {
	db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = NewSQL(db, DriverSQLite).Load(context.Background())
	require.Error(t, err)
}
