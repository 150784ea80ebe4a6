package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-arot/internal/settlement"
)

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	sess := store.Put(Session{
		ID:    uuid.New(),
		Kind:  KindSale,
		Lines: []settlement.Line{{ID: "a", ProductName: "Mango"}},
	})

	got, ok := store.Get(sess.ID)
	require.True(t, ok)

	// Mutating the returned snapshot must not leak into the store.
	got.Lines[0].ProductName = "changed"
	again, ok := store.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, "Mango", again.Lines[0].ProductName)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	sess := store.Put(Session{ID: uuid.New(), Kind: KindSale})
	_, ok := store.Get(sess.ID)
	require.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = store.Get(sess.ID)
	require.False(t, ok)

	require.Equal(t, 1, store.Len())
	require.Equal(t, 1, store.Sweep())
	require.Equal(t, 0, store.Len())
}

func TestMemoryStoreDeleteMissingIsNoop(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	store.Delete(uuid.New())
	require.Equal(t, 0, store.Len())
}
