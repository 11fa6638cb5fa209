package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"contactbook/internal/contact/models"
)

type gateway interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snapshot models.Snapshot) error
}

func sampleDirectory(t *testing.T) *models.Directory {
	t.Helper()
	d := models.NewDirectory()

	alice, err := models.NewRecord("Alice")
	require.NoError(t, err)
	require.NoError(t, alice.AddPhone("0123456789"))
	require.NoError(t, alice.AddPhone("9876543210"))
	require.NoError(t, alice.AddBirthday("12-06-1990"))
	require.NoError(t, d.Add(alice))

	bob, err := models.NewRecord("Bob")
	require.NoError(t, err)
	require.NoError(t, d.Add(bob))

	carl, err := models.NewRecord("Carl")
	require.NoError(t, err)
	require.NoError(t, carl.AddPhone("5555555555"))
	require.NoError(t, carl.AddPhone("5555555555"))
	require.NoError(t, d.Add(carl))
	return d
}

// exerciseGateway checks the contract every backend shares.
func exerciseGateway(t *testing.T, g gateway) {
	t.Helper()
	ctx := context.Background()

	t.Run("never saved loads empty", func(t *testing.T) {
		snap, err := g.Load(ctx)
		require.NoError(t, err)
		require.Empty(t, snap.Contacts)
		d, err := models.RestoreDirectory(snap)
		require.NoError(t, err)
		require.Equal(t, 0, d.Len())
	})

	t.Run("round trip preserves records", func(t *testing.T) {
		want := sampleDirectory(t).Snapshot()
		require.NoError(t, g.Save(ctx, want))

		got, err := g.Load(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
		}
		_, err = models.RestoreDirectory(got)
		require.NoError(t, err)
	})

	t.Run("save replaces previous state", func(t *testing.T) {
		d := sampleDirectory(t)
		d.Delete("Alice")
		want := d.Snapshot()
		require.NoError(t, g.Save(ctx, want))

		got, err := g.Load(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty directory round trips", func(t *testing.T) {
		require.NoError(t, g.Save(ctx, models.NewDirectory().Snapshot()))
		got, err := g.Load(ctx)
		require.NoError(t, err)
		require.Empty(t, got.Contacts)
	})
}
