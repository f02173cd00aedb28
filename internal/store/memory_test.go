package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
	"github.com/vyrodovalexey/shoppinglist/internal/shoppinglist"
)

// recordingNotifier collects published events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []model.ListEvent
}

func (r *recordingNotifier) Publish(event model.ListEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func cancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestNewMemoryStore(t *testing.T) {
	// Act
	store := NewMemoryStore(nil)

	// Assert
	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}
	if store.list == nil {
		t.Error("list should be initialized")
	}
	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("List() returned %d items, want 0", len(items))
	}
}

func TestNewMemoryStore_WithSeededList(t *testing.T) {
	// Arrange
	list, err := shoppinglist.NewDemo()
	if err != nil {
		t.Fatalf("NewDemo() unexpected error: %v", err)
	}

	// Act
	store := NewMemoryStore(list)
	items, _ := store.List(context.Background())

	// Assert
	if len(items) != 4 {
		t.Errorf("List() returned %d items, want 4", len(items))
	}
	if got := testutil.ToFloat64(itemsGauge); got != 4 {
		t.Errorf("shoppinglist_items = %v, want 4", got)
	}
}

func TestMemoryStore_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   *model.ItemInput
		wantErr error
	}{
		{
			name:  "valid input",
			input: &model.ItemInput{Name: "Milk", Quantity: 2, Notes: model.StringPtr("Lactose-free")},
		},
		{
			name:  "input without notes",
			input: &model.ItemInput{Name: "Bread", Quantity: 1},
		},
		{
			name:    "nil input",
			input:   nil,
			wantErr: ErrNilInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := NewMemoryStore(nil)
			ctx := context.Background()

			// Act
			created, err := store.Create(ctx, tt.input)

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}
			if created.ID == "" {
				t.Error("Create() should generate an ID")
			}
			if created.Name != tt.input.Name {
				t.Errorf("Name = %s, want %s", created.Name, tt.input.Name)
			}
			if created.Quantity != tt.input.Quantity {
				t.Errorf("Quantity = %d, want %d", created.Quantity, tt.input.Quantity)
			}
			if created.IsPurchased {
				t.Error("IsPurchased should be false on creation")
			}
		})
	}
}

func TestMemoryStore_ContextCancellation(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := cancelledContext()
	input := &model.ItemInput{Name: "Milk", Quantity: 1}

	tests := []struct {
		name string
		call func() error
	}{
		{"list", func() error { _, err := store.List(ctx); return err }},
		{"search", func() error { _, err := store.Search(ctx, "milk"); return err }},
		{"get", func() error { _, err := store.Get(ctx, "id"); return err }},
		{"create", func() error { _, err := store.Create(ctx, input); return err }},
		{"update", func() error { _, err := store.Update(ctx, "id", input); return err }},
		{"delete", func() error { return store.Delete(ctx, "id") }},
		{"toggle", func() error { _, err := store.TogglePurchased(ctx, "id"); return err }},
		{"clear purchased", func() error { _, err := store.ClearPurchased(ctx); return err }},
		{"reorder", func() error { return store.Reorder(ctx, []string{"id"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := tt.call()

			// Assert
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	}

	items, _ := store.List(context.Background())
	if len(items) != 0 {
		t.Errorf("cancelled calls must not mutate, got %d items", len(items))
	}
}

func TestMemoryStore_Get(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	ctx := context.Background()
	created, _ := store.Create(ctx, &model.ItemInput{Name: "Milk", Quantity: 2})

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "existing item", id: created.ID},
		{name: "non-existing item", id: "non-existent-id", wantErr: ErrNotFound},
		{name: "empty id", id: "", wantErr: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := store.Get(ctx, tt.id)

			// Assert
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if got.ID != created.ID || got.Name != "Milk" {
				t.Errorf("Get() = %+v, want %+v", got, created)
			}
		})
	}
}

func TestMemoryStore_Update(t *testing.T) {
	tests := []struct {
		name    string
		id      func(created *model.ShoppingItem) string
		input   *model.ItemInput
		wantErr error
	}{
		{
			name:  "valid update",
			id:    func(c *model.ShoppingItem) string { return c.ID },
			input: &model.ItemInput{Name: "Oat milk", Quantity: 3, Notes: model.StringPtr("Barista")},
		},
		{
			name:    "non-existing item",
			id:      func(_ *model.ShoppingItem) string { return "non-existent-id" },
			input:   &model.ItemInput{Name: "Oat milk", Quantity: 3},
			wantErr: ErrNotFound,
		},
		{
			name:    "empty id",
			id:      func(_ *model.ShoppingItem) string { return "" },
			input:   &model.ItemInput{Name: "Oat milk", Quantity: 3},
			wantErr: ErrInvalidID,
		},
		{
			name:    "nil input",
			id:      func(c *model.ShoppingItem) string { return c.ID },
			input:   nil,
			wantErr: ErrNilInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := NewMemoryStore(nil)
			ctx := context.Background()
			created, _ := store.Create(ctx, &model.ItemInput{Name: "Milk", Quantity: 2})
			_, _ = store.TogglePurchased(ctx, created.ID)
			id := tt.id(created)

			// Act
			updated, err := store.Update(ctx, id, tt.input)

			// Assert
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() unexpected error: %v", err)
			}
			if updated.ID != created.ID {
				t.Errorf("ID = %s, want %s", updated.ID, created.ID)
			}
			if updated.Name != tt.input.Name || updated.Quantity != tt.input.Quantity {
				t.Errorf("Update() = %+v, want fields of %+v", updated, tt.input)
			}
			if !updated.IsPurchased {
				t.Error("Update() must not change IsPurchased")
			}
		})
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	tests := []struct {
		name    string
		useID   bool
		id      string
		wantErr error
	}{
		{name: "existing item", useID: true},
		{name: "non-existing item", id: "non-existent-id", wantErr: ErrNotFound},
		{name: "empty id", id: "", wantErr: ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := NewMemoryStore(nil)
			ctx := context.Background()
			created, _ := store.Create(ctx, &model.ItemInput{Name: "Milk", Quantity: 1})

			id := tt.id
			if tt.useID {
				id = created.ID
			}

			// Act
			err := store.Delete(ctx, id)

			// Assert
			if err != tt.wantErr {
				t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if _, err := store.Get(ctx, id); err != ErrNotFound {
					t.Error("Item should be deleted")
				}
			}
		})
	}
}

func TestMemoryStore_TogglePurchased(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	ctx := context.Background()
	created, _ := store.Create(ctx, &model.ItemInput{Name: "Milk", Quantity: 1})

	// Act
	toggled, err := store.TogglePurchased(ctx, created.ID)

	// Assert
	if err != nil {
		t.Fatalf("TogglePurchased() unexpected error: %v", err)
	}
	if !toggled.IsPurchased {
		t.Error("TogglePurchased() should set IsPurchased")
	}
	if got := testutil.ToFloat64(purchasedGauge); got != 1 {
		t.Errorf("shoppinglist_items_purchased = %v, want 1", got)
	}

	if _, err := store.TogglePurchased(ctx, "missing"); err != ErrNotFound {
		t.Errorf("TogglePurchased() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := store.TogglePurchased(ctx, ""); err != ErrInvalidID {
		t.Errorf("TogglePurchased() error = %v, want %v", err, ErrInvalidID)
	}
}

func TestMemoryStore_ClearPurchased(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	ctx := context.Background()
	var created []*model.ShoppingItem
	for _, name := range []string{"A", "B", "C"} {
		item, _ := store.Create(ctx, &model.ItemInput{Name: name, Quantity: 1})
		created = append(created, item)
	}
	_, _ = store.TogglePurchased(ctx, created[1].ID)

	// Act
	removed, err := store.ClearPurchased(ctx)

	// Assert
	if err != nil {
		t.Fatalf("ClearPurchased() unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("ClearPurchased() = %d, want 1", removed)
	}
	items, _ := store.List(ctx)
	if len(items) != 2 || items[0].Name != "A" || items[1].Name != "C" {
		t.Errorf("List() after clear = %+v", items)
	}

	again, _ := store.ClearPurchased(ctx)
	if again != 0 {
		t.Errorf("second ClearPurchased() = %d, want 0", again)
	}
}

func TestMemoryStore_Reorder(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	ctx := context.Background()
	a, _ := store.Create(ctx, &model.ItemInput{Name: "A"})
	b, _ := store.Create(ctx, &model.ItemInput{Name: "B"})

	// Act
	err := store.Reorder(ctx, []string{b.ID, a.ID})

	// Assert
	if err != nil {
		t.Fatalf("Reorder() unexpected error: %v", err)
	}
	items, _ := store.List(ctx)
	if items[0].ID != b.ID || items[1].ID != a.ID {
		t.Errorf("Reorder() order = [%s %s], want [%s %s]", items[0].ID, items[1].ID, b.ID, a.ID)
	}

	if err := store.Reorder(ctx, []string{a.ID, a.ID}); err != ErrInvalidOrder {
		t.Errorf("Reorder() duplicate error = %v, want %v", err, ErrInvalidOrder)
	}
	if err := store.Reorder(ctx, nil); err != ErrInvalidOrder {
		t.Errorf("Reorder() empty error = %v, want %v", err, ErrInvalidOrder)
	}
}

func TestMemoryStore_Search(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	ctx := context.Background()
	_, _ = store.Create(ctx, &model.ItemInput{Name: "milk", Quantity: 1})
	_, _ = store.Create(ctx, &model.ItemInput{Name: "Bread", Notes: model.StringPtr("Whole grain")})

	// Act
	byName, _ := store.Search(ctx, "MILK")
	byNotes, _ := store.Search(ctx, "grain")
	all, _ := store.Search(ctx, "")

	// Assert
	if len(byName) != 1 || byName[0].Name != "milk" {
		t.Errorf("Search(MILK) = %+v", byName)
	}
	if len(byNotes) != 1 || byNotes[0].Name != "Bread" {
		t.Errorf("Search(grain) = %+v", byNotes)
	}
	if len(all) != 2 {
		t.Errorf("Search(\"\") returned %d items, want 2", len(all))
	}
}

func TestMemoryStore_PublishesEvents(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	notifier := &recordingNotifier{}
	store.SetNotifier(notifier)
	ctx := context.Background()

	// Act
	a, _ := store.Create(ctx, &model.ItemInput{Name: "A"})
	b, _ := store.Create(ctx, &model.ItemInput{Name: "B"})
	_, _ = store.Update(ctx, a.ID, &model.ItemInput{Name: "A2"})
	_, _ = store.TogglePurchased(ctx, a.ID)
	_ = store.Reorder(ctx, []string{b.ID, a.ID})
	_, _ = store.ClearPurchased(ctx)
	_, _ = store.ClearPurchased(ctx) // no-op, no event
	_ = store.Delete(ctx, b.ID)
	_ = store.Delete(ctx, b.ID) // not found, no event

	// Assert
	want := []string{
		model.EventItemAdded,
		model.EventItemAdded,
		model.EventItemUpdated,
		model.EventItemToggled,
		model.EventItemsReordered,
		model.EventPurchasedCleared,
		model.EventItemDeleted,
	}
	got := notifier.types()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	last := notifier.events[len(notifier.events)-1]
	if last.Count != 0 || last.ItemID != b.ID {
		t.Errorf("last event = %+v", last)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	ctx := context.Background()
	numGoroutines := 50
	numOperations := 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// Act
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			for j := 0; j < numOperations; j++ {
				created, err := store.Create(ctx, &model.ItemInput{Name: "Item", Quantity: id * j})
				if err != nil {
					return
				}
				_, _ = store.Get(ctx, created.ID)
				_, _ = store.List(ctx)
				_, _ = store.Search(ctx, "item")
				_, _ = store.TogglePurchased(ctx, created.ID)
				_, _ = store.Update(ctx, created.ID, &model.ItemInput{Name: "Updated", Quantity: 1})
				_ = store.Delete(ctx, created.ID)
			}
		}(i)
	}

	wg.Wait()

	// Assert
	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() after concurrent access failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Store has %d items remaining after concurrent operations", len(items))
	}
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	// Arrange
	store := NewMemoryStore(nil)
	ctx := context.Background()
	numGoroutines := 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// Act
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			_, _ = store.Create(ctx, &model.ItemInput{Name: "Item", Quantity: id})
		}(i)
	}

	wg.Wait()

	// Assert
	items, _ := store.List(ctx)
	if len(items) != numGoroutines {
		t.Errorf("Expected %d items, got %d", numGoroutines, len(items))
	}
	seen := make(map[string]bool)
	for _, item := range items {
		if seen[item.ID] {
			t.Errorf("Duplicate ID: %s", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestMemoryStore_ImplementsInterface(t *testing.T) {
	var _ Store = (*MemoryStore)(nil)
}
