package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage implements Storage for testing
type memStorage struct {
	data map[string][]byte
	sets int
	dels int
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte) error {
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memStorage) Del(_ context.Context, key string) error {
	m.dels++
	delete(m.data, key)
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()

	s, err := Open(ctx, storage, "u1")
	require.NoError(t, err)

	red := &Color{Name: "Rojo", Code: "#f00"}
	require.NoError(t, s.Add(ctx, 1, nil))
	require.NoError(t, s.Add(ctx, 2, red))
	require.NoError(t, s.Add(ctx, 1, nil))

	reloaded, err := Open(ctx, storage, "u1")
	require.NoError(t, err)
	assert.Equal(t, s.Entries(), reloaded.Entries())
	assert.Equal(t, 3, reloaded.Len())
}

func TestStoreEmptyDeletesKey(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()

	s, err := Open(ctx, storage, "u1")
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, 7, nil))
	assert.Contains(t, storage.data, "cart:u1")

	// removal down to zero must delete the key, not write []
	require.NoError(t, s.Remove(ctx, 7, nil))
	assert.NotContains(t, storage.data, "cart:u1")

	require.NoError(t, s.Add(ctx, 7, nil))
	require.NoError(t, s.Clear(ctx))
	assert.NotContains(t, storage.data, "cart:u1")
}

func TestOpenDoesNotWriteBack(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()

	_, err := Open(ctx, storage, "u1")
	require.NoError(t, err)
	assert.Zero(t, storage.sets)
	assert.Zero(t, storage.dels)
}

func TestOpenCorruptedValue(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.data["cart:u1"] = []byte("{not json")

	s, err := Open(ctx, storage, "u1")
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.NotContains(t, storage.data, "cart:u1")
}

func TestRemoveFirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	s, err := Open(ctx, storage, "u1")
	require.NoError(t, err)

	red := &Color{Name: "Rojo"}
	blue := &Color{Name: "Azul"}
	require.NoError(t, s.Add(ctx, 1, red))
	require.NoError(t, s.Add(ctx, 1, blue))
	require.NoError(t, s.Add(ctx, 1, red))

	require.NoError(t, s.Remove(ctx, 1, red))
	assert.Equal(t, 1, s.Count(1, red))
	assert.Equal(t, 1, s.Count(1, blue))

	// color-less removal matches the first entry regardless of color
	require.NoError(t, s.Remove(ctx, 1, nil))
	assert.Equal(t, 1, s.Len())

	// removing from an empty cart must not fail
	require.NoError(t, s.Remove(ctx, 99, nil))
}

func TestUniqueItemsPreservesFirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, newMemStorage(), "u1")
	require.NoError(t, err)

	red := &Color{Name: "Rojo"}
	require.NoError(t, s.Add(ctx, 1, nil))
	require.NoError(t, s.Add(ctx, 2, red))
	require.NoError(t, s.Add(ctx, 1, nil))
	require.NoError(t, s.Add(ctx, 3, nil))

	items := s.UniqueItems()
	require.Len(t, items, 3)
	assert.Equal(t, uint(1), items[0].Entry.ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, uint(2), items[1].Entry.ProductID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, uint(3), items[2].Entry.ProductID)
}

func TestStoredEncodingIsPlainArray(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	s, err := Open(ctx, storage, "u1")
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, 5, &Color{Name: "Negro", Code: "#000"}))

	var decoded []Entry
	require.NoError(t, json.Unmarshal(storage.data["cart:u1"], &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, uint(5), decoded[0].ProductID)
	assert.Equal(t, "Negro", decoded[0].Color.Name)
}
