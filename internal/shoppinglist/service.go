// Package shoppinglist implements the in-memory shopping list: an ordered,
// duplicate-free collection of items supporting append, lookup by id,
// order-preserving removal, search, bulk clearing and explicit reordering.
//
// A Service is owned by a single caller and performs no locking. Callers that
// share one across goroutines must serialize access themselves (see
// internal/store).
package shoppinglist

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// DefaultCapacity is the initial size of the backing array.
const DefaultCapacity = 5

// IDGenerator returns a new identifier on every call.
type IDGenerator func() string

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithCapacity sets the initial capacity of the backing array.
// Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithItems seeds the service with items once it is constructed.
func WithItems(items []SeedItem) Option {
	return func(s *Service) {
		s.seed = append(s.seed, items...)
	}
}

// Service owns the shopping list.
type Service struct {
	// items[:len(items)] is the live region.
	items    []model.ShoppingItem
	newID    IDGenerator
	capacity int
	seed     []SeedItem
}

// New creates a Service. Without WithItems the list starts empty.
func New(opts ...Option) *Service {
	s := &Service{
		newID:    uuid.NewString,
		capacity: DefaultCapacity,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.items = make([]model.ShoppingItem, 0, s.capacity)
	s.apply(s.seed)
	s.seed = nil

	return s
}

// NewDemo creates a Service seeded with the embedded demonstration items.
func NewDemo(opts ...Option) (*Service, error) {
	demo, err := DemoItems()
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithItems(demo))...), nil
}

// Len returns the number of live items.
func (s *Service) Len() int {
	return len(s.items)
}

// PurchasedCount reports how many items are marked purchased.
func (s *Service) PurchasedCount() int {
	n := 0
	for i := range s.items {
		if s.items[i].IsPurchased {
			n++
		}
	}
	return n
}

// Add appends a new unpurchased item and returns it.
func (s *Service) Add(name string, quantity int, notes *string) model.ShoppingItem {
	item := model.ShoppingItem{
		ID:          s.newID(),
		Name:        name,
		Quantity:    quantity,
		Notes:       cloneNotes(notes),
		IsPurchased: false,
	}

	// append doubles the backing array when it is full.
	s.items = append(s.items, item)

	return snapshot(item)
}

// GetAll returns the live items in display order. The result is never nil.
func (s *Service) GetAll() []model.ShoppingItem {
	out := make([]model.ShoppingItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, snapshot(item))
	}
	return out
}

// GetByID returns the item with the given id.
func (s *Service) GetByID(id string) (model.ShoppingItem, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.ShoppingItem{}, false
	}
	return snapshot(s.items[i]), true
}

// Update replaces name, quantity and notes of the item with the given id.
// The id and purchased flag are never touched.
func (s *Service) Update(id, name string, quantity int, notes *string) (model.ShoppingItem, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.ShoppingItem{}, false
	}

	item := &s.items[i]
	item.Name = name
	item.Quantity = quantity
	item.Notes = cloneNotes(notes)

	return snapshot(*item), true
}

// Delete removes the item with the given id, shifting every later item one
// position earlier.
func (s *Service) Delete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	last := len(s.items) - 1
	copy(s.items[i:], s.items[i+1:])
	s.items[last] = model.ShoppingItem{}
	s.items = s.items[:last]

	return true
}

// Search returns the items whose name or notes contain query, ignoring case.
// A blank query matches every item; any other query is matched as given,
// surrounding spaces included.
func (s *Service) Search(query string) []model.ShoppingItem {
	if strings.TrimSpace(query) == "" {
		return s.GetAll()
	}
	needle := strings.ToLower(query)

	out := make([]model.ShoppingItem, 0)
	for _, item := range s.items {
		if matches(item, needle) {
			out = append(out, snapshot(item))
		}
	}
	return out
}

// ClearPurchased removes every purchased item in a single pass and reports
// how many were removed. Survivors keep their relative order.
func (s *Service) ClearPurchased() int {
	kept := 0
	for _, item := range s.items {
		if item.IsPurchased {
			continue
		}
		s.items[kept] = item
		kept++
	}

	removed := len(s.items) - kept
	if removed == 0 {
		return 0
	}

	clear(s.items[kept:])
	s.items = s.items[:kept]

	return removed
}

// TogglePurchased flips the purchased flag of the item with the given id.
func (s *Service) TogglePurchased(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items[i].IsPurchased = !s.items[i].IsPurchased
	return true
}

// Reorder arranges the list to match orderedIDs. orderedIDs must name every
// live item exactly once; otherwise Reorder returns false and the list is
// left unchanged.
func (s *Service) Reorder(orderedIDs []string) bool {
	if len(s.items) == 0 || len(orderedIDs) != len(s.items) {
		return false
	}

	positions := make(map[string]int, len(s.items))
	for i, item := range s.items {
		positions[item.ID] = i
	}

	reordered := make([]model.ShoppingItem, len(orderedIDs), cap(s.items))
	seen := make(map[string]struct{}, len(orderedIDs))
	for i, id := range orderedIDs {
		pos, ok := positions[id]
		if !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		reordered[i] = s.items[pos]
	}

	// Equal length, no duplicates and no unknown ids means every stored id
	// was named.
	s.items = reordered

	return true
}

// indexOf returns the live position of id, or -1.
func (s *Service) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) apply(seed []SeedItem) {
	for _, si := range seed {
		item := s.Add(si.Name, si.Quantity, si.Notes)
		if si.Purchased {
			s.TogglePurchased(item.ID)
		}
	}
}

func matches(item model.ShoppingItem, needle string) bool {
	if strings.Contains(strings.ToLower(item.Name), needle) {
		return true
	}
	return item.Notes != nil && strings.Contains(strings.ToLower(*item.Notes), needle)
}

// snapshot returns a copy of item that shares no memory with the store.
func snapshot(item model.ShoppingItem) model.ShoppingItem {
	item.Notes = cloneNotes(item.Notes)
	return item
}

func cloneNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	n := *notes
	return &n
}
