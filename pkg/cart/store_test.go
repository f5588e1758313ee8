package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/pkg/kv"
	"shopfront/pkg/models"
)

const sid = "visitor-1"

func newTestStore() (*Store, *kv.Memory) {
	mem := kv.NewMemory()
	return New(mem), mem
}

func product(id string, price float64) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: price, Image: id + ".jpg"}
}

func TestAddSameProductMergesLines(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.AddItem(ctx, sid, product("p1", 10), 1)
	items := store.AddItem(ctx, sid, product("p1", 10), 1)

	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddClampsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	items := store.AddItem(ctx, sid, product("p1", 10), 0)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)

	items = store.AddItem(ctx, sid, product("p2", 5), -3)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestUpdateQuantityFloorRemovesLine(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.AddItem(ctx, sid, product("p1", 10), 2)
	store.AddItem(ctx, sid, product("p2", 5), 1)

	items := store.UpdateQuantity(ctx, sid, "p1", 0)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	items = store.UpdateQuantity(ctx, sid, "p2", -5)
	assert.Empty(t, items)
}

func TestUpdateQuantitySetsDirectly(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.AddItem(ctx, sid, product("p1", 10), 2)
	items := store.UpdateQuantity(ctx, sid, "p1", 7)

	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)

	// Absent id is a no-op, not an error.
	items = store.UpdateQuantity(ctx, sid, "ghost", 3)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.AddItem(ctx, sid, product("p1", 10), 1)
	items := store.RemoveItem(ctx, sid, "ghost")
	assert.Len(t, items, 1)
}

func TestDerivedTotals(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.AddItem(ctx, sid, product("p1", 10), 2)
	store.AddItem(ctx, sid, product("p2", 5), 3)

	assert.InDelta(t, 35.0, store.Total(ctx, sid), 1e-9)
	assert.Equal(t, 5, store.ItemCount(ctx, sid))

	view := store.View(ctx, sid)
	assert.InDelta(t, 35.0, view.Total, 1e-9)
	assert.Equal(t, 5, view.ItemCount)
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := New(mem)

	store.AddItem(ctx, sid, product("p1", 10), 2)
	store.AddItem(ctx, sid, product("p2", 5), 3)
	store.UpdateQuantity(ctx, sid, "p1", 4)
	store.RemoveItem(ctx, sid, "p2")
	before := store.Items(ctx, sid)

	// Simulate a reload: a fresh store over the same persisted storage.
	reloaded := New(mem)
	after := reloaded.Hydrate(ctx, sid)
	assert.Equal(t, before, after)
}

func TestHydrateClearsCorruptRecord(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, "cart:"+sid, "{not json"))

	store := New(mem)
	items := store.Hydrate(ctx, sid)
	assert.Empty(t, items)

	_, err := mem.Get(ctx, "cart:"+sid)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestClearEmptiesCartAndStorage(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := New(mem)

	store.AddItem(ctx, sid, product("p1", 10), 2)
	store.Clear(ctx, sid)

	assert.Empty(t, store.Items(ctx, sid))
	assert.Empty(t, New(mem).Hydrate(ctx, sid))
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	store.AddItem(ctx, "alice", product("p1", 10), 1)
	store.AddItem(ctx, "bob", product("p2", 5), 2)

	assert.Equal(t, 1, store.ItemCount(ctx, "alice"))
	assert.Equal(t, 2, store.ItemCount(ctx, "bob"))
}
