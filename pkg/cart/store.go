// Package cart owns shopping cart contents. The in-memory state is
// authoritative; the persisted record, one JSON blob per cart, is
// rewritten after every mutation. Storage faults are logged and never
// surfaced, so mutations cannot fail.
package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"shopfront/pkg/kv"
	"shopfront/pkg/models"
)

type Store struct {
	kv kv.Store

	mu    sync.Mutex
	carts map[string][]models.LineItem
}

func New(store kv.Store) *Store {
	return &Store{kv: store, carts: make(map[string][]models.LineItem)}
}

func cartKey(sid string) string {
	return "cart:" + sid
}

// Hydrate loads the persisted cart for sid. A record that fails to parse
// is deleted and the cart starts empty; parse errors never reach callers.
func (s *Store) Hydrate(ctx context.Context, sid string) []models.LineItem {
	var items []models.LineItem

	raw, err := s.kv.Get(ctx, cartKey(sid))
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("warning: discarding corrupt cart record for %s: %v", sid, err)
			items = nil
			if err := s.kv.Del(ctx, cartKey(sid)); err != nil {
				log.Printf("warning: failed to delete corrupt cart record for %s: %v", sid, err)
			}
		}
	}

	s.mu.Lock()
	s.carts[sid] = items
	s.mu.Unlock()
	return copyItems(items)
}

// Items returns the current line items for sid, hydrating on first use.
func (s *Store) Items(ctx context.Context, sid string) []models.LineItem {
	s.mu.Lock()
	items, ok := s.carts[sid]
	s.mu.Unlock()
	if !ok {
		return s.Hydrate(ctx, sid)
	}
	return copyItems(items)
}

// AddItem appends product as a new line item, or bumps the quantity of the
// existing line with the same product id. Quantities below one are clamped
// to one.
func (s *Store) AddItem(ctx context.Context, sid string, product models.Product, quantity int) []models.LineItem {
	if quantity < 1 {
		quantity = 1
	}
	s.ensure(ctx, sid)

	s.mu.Lock()
	items := s.carts[sid]
	found := false
	for i := range items {
		if items[i].ProductID == product.ID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.LineItem{
			ProductID:   product.ID,
			Name:        product.Name,
			Price:       product.Price,
			Quantity:    quantity,
			Image:       product.Image,
			Description: product.Description,
			Category:    product.Category,
			Brand:       product.Brand,
		})
	}
	s.carts[sid] = items
	snapshot := copyItems(items)
	s.mu.Unlock()

	s.persist(ctx, sid, snapshot)
	return snapshot
}

// RemoveItem drops the line item with productID. Removing an absent id is
// a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, sid, productID string) []models.LineItem {
	s.ensure(ctx, sid)

	s.mu.Lock()
	items := s.carts[sid]
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.carts[sid] = kept
	snapshot := copyItems(kept)
	s.mu.Unlock()

	s.persist(ctx, sid, snapshot)
	return snapshot
}

// UpdateQuantity sets the quantity of the line item with productID.
// Quantities of zero or below remove the line instead; an absent id is a
// no-op.
func (s *Store) UpdateQuantity(ctx context.Context, sid, productID string, quantity int) []models.LineItem {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sid, productID)
	}
	s.ensure(ctx, sid)

	s.mu.Lock()
	items := s.carts[sid]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	snapshot := copyItems(items)
	s.mu.Unlock()

	s.persist(ctx, sid, snapshot)
	return snapshot
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context, sid string) {
	s.mu.Lock()
	s.carts[sid] = nil
	s.mu.Unlock()

	s.persist(ctx, sid, nil)
}

// Total is the sum of price times quantity over all line items.
func (s *Store) Total(ctx context.Context, sid string) float64 {
	var total float64
	for _, item := range s.Items(ctx, sid) {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all line items.
func (s *Store) ItemCount(ctx context.Context, sid string) int {
	count := 0
	for _, item := range s.Items(ctx, sid) {
		count += item.Quantity
	}
	return count
}

// View bundles the items with their derived totals.
func (s *Store) View(ctx context.Context, sid string) models.CartView {
	items := s.Items(ctx, sid)
	if items == nil {
		items = []models.LineItem{}
	}
	view := models.CartView{Items: items}
	for _, item := range items {
		view.Total += item.Price * float64(item.Quantity)
		view.ItemCount += item.Quantity
	}
	return view
}

func (s *Store) ensure(ctx context.Context, sid string) {
	s.mu.Lock()
	_, ok := s.carts[sid]
	s.mu.Unlock()
	if !ok {
		s.Hydrate(ctx, sid)
	}
}

func (s *Store) persist(ctx context.Context, sid string, items []models.LineItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		log.Printf("warning: failed to serialize cart for %s: %v", sid, err)
		return
	}
	if err := s.kv.Set(ctx, cartKey(sid), string(raw)); err != nil {
		log.Printf("warning: failed to persist cart for %s: %v", sid, err)
	}
}

func copyItems(items []models.LineItem) []models.LineItem {
	if len(items) == 0 {
		return nil
	}
	cp := make([]models.LineItem, len(items))
	copy(cp, items)
	return cp
}
