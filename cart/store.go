package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

type Color struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Entry is one selected unit of a product. Repetition encodes quantity:
// adding the same product twice produces two entries, not a counter.
type Entry struct {
	ProductID uint   `json:"productId"`
	Color     *Color `json:"color,omitempty"`
}

// UniqueItem is a (product, color) group with its occurrence count,
// preserving first-seen order. Used for rendering only; checkout does its
// own aggregation against authoritative prices.
type UniqueItem struct {
	Entry    Entry `json:"entry"`
	Quantity int   `json:"quantity"`
}

// Store holds one session's cart and mirrors every mutation to durable
// storage. A non-empty cart is one JSON array under one key; an empty cart
// deletes the key so a stale empty value can never resurrect on next load.
type Store struct {
	storage Storage
	key     string
	entries []Entry
}

// Open loads the session's cart. A value that fails to decode is treated
// as no cart: the corrupted key is cleared and an empty store returned.
// Opening never writes the cart back.
func Open(ctx context.Context, storage Storage, sessionID string) (*Store, error) {
	s := &Store{storage: storage, key: "cart:" + sessionID}

	raw, err := storage.Get(ctx, s.key)
	if errors.Is(err, ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &s.entries); err != nil {
		log.Printf("⚠️ Discarding corrupted cart %s: %v", s.key, err)
		s.entries = nil
		if delErr := storage.Del(ctx, s.key); delErr != nil {
			return nil, delErr
		}
	}
	return s, nil
}

func (s *Store) Add(ctx context.Context, productID uint, color *Color) error {
	s.entries = append(s.entries, Entry{ProductID: productID, Color: color})
	return s.persist(ctx)
}

// Remove drops the first matching entry. A no-op on an empty cart or when
// nothing matches.
func (s *Store) Remove(ctx context.Context, productID uint, color *Color) error {
	for i, e := range s.entries {
		if matches(e, productID, color) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.entries = nil
	return s.storage.Del(ctx, s.key)
}

func (s *Store) Count(productID uint, color *Color) int {
	n := 0
	for _, e := range s.entries {
		if matches(e, productID, color) {
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) UniqueItems() []UniqueItem {
	var items []UniqueItem
	index := make(map[string]int)
	for _, e := range s.entries {
		k := groupKey(e)
		if i, ok := index[k]; ok {
			items[i].Quantity++
			continue
		}
		index[k] = len(items)
		items = append(items, UniqueItem{Entry: e, Quantity: 1})
	}
	return items
}

func (s *Store) persist(ctx context.Context) error {
	if len(s.entries) == 0 {
		return s.storage.Del(ctx, s.key)
	}
	raw, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	return s.storage.Set(ctx, s.key, raw)
}

// matches pairs entries by product id; the color name only participates
// when both sides carry a color.
func matches(e Entry, productID uint, color *Color) bool {
	if e.ProductID != productID {
		return false
	}
	if color == nil || e.Color == nil {
		return true
	}
	return e.Color.Name == color.Name
}

func groupKey(e Entry) string {
	if e.Color != nil {
		return fmt.Sprintf("%d-%s", e.ProductID, e.Color.Name)
	}
	return fmt.Sprintf("%d", e.ProductID)
}
