package wishlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/closette/storefront/internal/domain"
	"github.com/closette/storefront/internal/notify"
	"github.com/closette/storefront/internal/storage"
)

func dress() domain.Product {
	return domain.Product{
		ID:    7,
		Name:  "Wrap Dress",
		Price: decimal.RequireFromString("89.90"),
		Variants: []domain.SizeVariant{
			{Size: domain.SizeS, Quantity: 4},
			{Size: domain.SizeM, Quantity: 1},
		},
	}
}

func newTestStore(t *testing.T) (*Store, *storage.Memory, *notify.Bus) {
	mem := storage.NewMemory()
	bus := notify.NewBus()
	store := NewStore(mem, bus, zap.NewNop())
	require.NoError(t, store.Load(context.Background()))
	return store, mem, bus
}

func TestToggle_AddsThenRemoves(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.Toggle(ctx, dress())
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, store.Contains(7))
	assert.Equal(t, 1, store.Count())

	added, err = store.Toggle(ctx, dress())
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, store.Contains(7))
	assert.Equal(t, 0, store.Count())
}

func TestToggle_IsItsOwnInverse(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	before := store.Contains(7)
	_, err := store.Toggle(ctx, dress())
	require.NoError(t, err)
	_, err = store.Toggle(ctx, dress())
	require.NoError(t, err)

	assert.Equal(t, before, store.Contains(7))
	assert.Empty(t, store.Items())
}

func TestToggle_NeverDuplicates(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Toggle(ctx, dress())
		require.NoError(t, err)
	}

	// Odd number of toggles: present exactly once.
	assert.Len(t, store.Items(), 1)
}

func TestToggle_FreezesSnapshot(t *testing.T) {
	store, _, _ := newTestStore(t)

	p := dress()
	_, err := store.Toggle(context.Background(), p)
	require.NoError(t, err)

	p.Price = decimal.RequireFromString("120")

	items := store.Items()
	assert.True(t, decimal.RequireFromString("89.90").Equal(items[0].Product.Price))
}

func TestRemove_Unconditional(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Toggle(ctx, dress())
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, 7))
	assert.False(t, store.Contains(7))

	// Absent is a no-op, not an error.
	require.NoError(t, store.Remove(ctx, 7))
	require.NoError(t, store.Remove(ctx, 999))
}

func TestClear(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Toggle(ctx, dress())
	require.NoError(t, err)
	other := dress()
	other.ID = 8
	_, err = store.Toggle(ctx, other)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.Count())
}

func TestPersistence_RoundTrip(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()

	store := NewStore(mem, notify.NewBus(), zap.NewNop())
	require.NoError(t, store.Load(ctx))
	_, err := store.Toggle(ctx, dress())
	require.NoError(t, err)

	fresh := NewStore(mem, notify.NewBus(), zap.NewNop())
	require.NoError(t, fresh.Load(ctx))

	require.Len(t, fresh.Items(), 1)
	assert.True(t, fresh.Contains(7))
	got := fresh.Items()[0]
	assert.Equal(t, "Wrap Dress", got.Product.Name)
	assert.True(t, decimal.RequireFromString("89.90").Equal(got.Product.Price))
	assert.Equal(t, dress().Variants, got.Product.Variants)
}

func TestLoad_CorruptStorageIsEmptyWishlist(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Write(ctx, StorageKey, []byte("][ nonsense")))

	store := NewStore(mem, notify.NewBus(), zap.NewNop())
	require.NoError(t, store.Load(ctx))
	assert.Empty(t, store.Items())
}

func TestLoad_CorruptStorageFileIsEmptyWishlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))
	ctx := context.Background()

	store := NewStore(storage.NewFile(path), notify.NewBus(), zap.NewNop())
	require.NoError(t, store.Load(ctx))
	assert.Empty(t, store.Items())

	added, err := store.Toggle(ctx, dress())
	require.NoError(t, err)
	assert.True(t, added)
}

func TestMutationsBeforeLoadAreRejected(t *testing.T) {
	store := NewStore(storage.NewMemory(), notify.NewBus(), zap.NewNop())
	ctx := context.Background()

	_, err := store.Toggle(ctx, dress())
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, store.Remove(ctx, 7), ErrNotLoaded)
	assert.ErrorIs(t, store.Clear(ctx), ErrNotLoaded)
}

func TestMutationsPublishWishlistChanged(t *testing.T) {
	store, _, bus := newTestStore(t)
	ctx := context.Background()

	var events int
	bus.Subscribe(notify.TopicWishlistChanged, func(notify.Event) { events++ })

	_, err := store.Toggle(ctx, dress())
	require.NoError(t, err)
	_, err = store.Toggle(ctx, dress())
	require.NoError(t, err)
	_, err = store.Toggle(ctx, dress())
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 4, events)

	// No-op removal and clearing an empty wishlist stay silent.
	require.NoError(t, store.Remove(ctx, 123))
	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 4, events)
}

type failingStorage struct {
	storage.Store
	err error
}

func (f *failingStorage) Write(context.Context, string, []byte) error {
	return f.err
}

func TestWriteFailureRollsBackToggle(t *testing.T) {
	writeErr := errors.New("quota exceeded")
	flaky := &failingStorage{Store: storage.NewMemory()}
	store := NewStore(flaky, notify.NewBus(), zap.NewNop())
	ctx := context.Background()
	require.NoError(t, store.Load(ctx))

	flaky.err = writeErr
	_, err := store.Toggle(ctx, dress())
	assert.ErrorIs(t, err, writeErr)
	assert.False(t, store.Contains(7))
	assert.Equal(t, 0, store.Count())

	flaky.err = nil
	added, err := store.Toggle(ctx, dress())
	require.NoError(t, err)
	assert.True(t, added)
}

func TestCartAndWishlistAreIndependent(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()

	store := NewStore(mem, notify.NewBus(), zap.NewNop())
	require.NoError(t, store.Load(ctx))
	_, err := store.Toggle(ctx, dress())
	require.NoError(t, err)

	// The wishlist writes only its own key.
	_, err = mem.Read(ctx, StorageKey)
	require.NoError(t, err)
	_, err = mem.Read(ctx, "storefront:cart")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
