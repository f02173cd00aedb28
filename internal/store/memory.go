package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
	"github.com/vyrodovalexey/shoppinglist/internal/shoppinglist"
)

// MemoryStore implements Store by serializing access to a single
// shoppinglist.Service.
type MemoryStore struct {
	mu       sync.Mutex
	list     *shoppinglist.Service
	notifier Notifier
}

// NewMemoryStore creates a MemoryStore around list. A nil list starts empty.
func NewMemoryStore(list *shoppinglist.Service) *MemoryStore {
	if list == nil {
		list = shoppinglist.New()
	}

	s := &MemoryStore{list: list}
	s.refreshGauges()

	return s
}

// SetNotifier registers the receiver of change events. Passing nil disables
// notifications.
func (s *MemoryStore) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// List returns all items in display order.
func (s *MemoryStore) List(ctx context.Context) ([]model.ShoppingItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list items: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list.GetAll(), nil
}

// Search returns the items whose name or notes contain query.
func (s *MemoryStore) Search(ctx context.Context, query string) ([]model.ShoppingItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("search items: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list.Search(query), nil
}

// Get retrieves an item by its ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.ShoppingItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.list.GetByID(id)
	if !ok {
		return nil, ErrNotFound
	}

	return &item, nil
}

// Create adds a new item to the end of the list.
func (s *MemoryStore) Create(ctx context.Context, input *model.ItemInput) (*model.ShoppingItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("create item: %w", ctx.Err())
	default:
	}

	if input == nil {
		return nil, fmt.Errorf("create item: %w", ErrNilInput)
	}

	s.mu.Lock()
	item := s.list.Add(input.Name, input.Quantity, input.Notes)
	event := s.commit("create", resultOK, model.EventItemAdded, item.ID)
	s.mu.Unlock()

	s.publish(event)

	return &item, nil
}

// Update replaces the editable fields of an existing item.
func (s *MemoryStore) Update(ctx context.Context, id string, input *model.ItemInput) (*model.ShoppingItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("update item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrInvalidID
	}

	if input == nil {
		return nil, fmt.Errorf("update item: %w", ErrNilInput)
	}

	s.mu.Lock()
	item, ok := s.list.Update(id, input.Name, input.Quantity, input.Notes)
	if !ok {
		s.mu.Unlock()
		operationsTotal.WithLabelValues("update", resultNotFound).Inc()
		return nil, ErrNotFound
	}
	event := s.commit("update", resultOK, model.EventItemUpdated, id)
	s.mu.Unlock()

	s.publish(event)

	return &item, nil
}

// Delete removes an item by its ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delete item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	if !s.list.Delete(id) {
		s.mu.Unlock()
		operationsTotal.WithLabelValues("delete", resultNotFound).Inc()
		return ErrNotFound
	}
	event := s.commit("delete", resultOK, model.EventItemDeleted, id)
	s.mu.Unlock()

	s.publish(event)

	return nil
}

// TogglePurchased flips the purchased flag and returns the updated item.
func (s *MemoryStore) TogglePurchased(ctx context.Context, id string) (*model.ShoppingItem, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("toggle item: %w", ctx.Err())
	default:
	}

	if id == "" {
		return nil, ErrInvalidID
	}

	s.mu.Lock()
	if !s.list.TogglePurchased(id) {
		s.mu.Unlock()
		operationsTotal.WithLabelValues("toggle", resultNotFound).Inc()
		return nil, ErrNotFound
	}
	item, _ := s.list.GetByID(id)
	event := s.commit("toggle", resultOK, model.EventItemToggled, id)
	s.mu.Unlock()

	s.publish(event)

	return &item, nil
}

// ClearPurchased removes all purchased items and returns how many were removed.
// No event is published when nothing was removed.
func (s *MemoryStore) ClearPurchased(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("clear purchased: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	removed := s.list.ClearPurchased()
	if removed == 0 {
		s.mu.Unlock()
		operationsTotal.WithLabelValues("clear_purchased", resultNoop).Inc()
		return 0, nil
	}
	event := s.commit("clear_purchased", resultOK, model.EventPurchasedCleared, "")
	s.mu.Unlock()

	s.publish(event)

	return removed, nil
}

// Reorder arranges the list to match ids.
func (s *MemoryStore) Reorder(ctx context.Context, ids []string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("reorder items: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	if !s.list.Reorder(ids) {
		s.mu.Unlock()
		operationsTotal.WithLabelValues("reorder", resultInvalid).Inc()
		return ErrInvalidOrder
	}
	event := s.commit("reorder", resultOK, model.EventItemsReordered, "")
	s.mu.Unlock()

	s.publish(event)

	return nil
}

// commit records a successful mutation and builds its event.
// Must be called with s.mu held.
func (s *MemoryStore) commit(operation, result, eventType, itemID string) *model.ListEvent {
	operationsTotal.WithLabelValues(operation, result).Inc()
	s.refreshGauges()

	if s.notifier == nil {
		return nil
	}

	event := model.NewListEvent(eventType, itemID, s.list.Len())
	return &event
}

// publish hands event to the notifier outside the lock.
func (s *MemoryStore) publish(event *model.ListEvent) {
	if event == nil {
		return
	}

	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()

	if n != nil {
		n.Publish(*event)
	}
}

func (s *MemoryStore) refreshGauges() {
	itemsGauge.Set(float64(s.list.Len()))
	purchasedGauge.Set(float64(s.list.PurchasedCount()))
}
