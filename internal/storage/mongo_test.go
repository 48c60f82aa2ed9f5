package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestMongo(t *testing.T) *Mongo {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongo(ctx, uri, "testdb")
	require.NoError(t, err)

	return NewMongo(db.Collection("storefront"))
}

func TestMongo_RoundTrip(t *testing.T) {
	store := setupTestMongo(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "storefront:cart", []byte(`{"a":1}`)))

	got, err := store.Read(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)

	// Overwrites replace in place, one document per key.
	require.NoError(t, store.Write(ctx, "storefront:cart", []byte(`{"a":2}`)))
	got, err = store.Read(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":2}`), got)
}

func TestMongo_ReadMissingKey(t *testing.T) {
	store := setupTestMongo(t)

	_, err := store.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongo_Remove(t *testing.T) {
	store := setupTestMongo(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "storefront:wishlist", []byte("x")))
	require.NoError(t, store.Remove(ctx, "storefront:wishlist"))

	_, err := store.Read(ctx, "storefront:wishlist")
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing an absent key is a no-op.
	require.NoError(t, store.Remove(ctx, "storefront:wishlist"))
}
