// Package store provides the context-aware, concurrency-safe storage API used
// by the HTTP layer.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// Store errors.
var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidID    = errors.New("invalid item ID")
	ErrInvalidOrder = errors.New("ids must list every item exactly once")
	ErrNilInput     = errors.New("item input cannot be nil")
)

// Store defines the interface for shopping list operations.
type Store interface {
	// List returns all items in display order.
	List(ctx context.Context) ([]model.ShoppingItem, error)

	// Search returns the items whose name or notes contain query.
	Search(ctx context.Context, query string) ([]model.ShoppingItem, error)

	// Get retrieves an item by its ID.
	Get(ctx context.Context, id string) (*model.ShoppingItem, error)

	// Create adds a new item to the end of the list.
	Create(ctx context.Context, input *model.ItemInput) (*model.ShoppingItem, error)

	// Update replaces the editable fields of an existing item.
	Update(ctx context.Context, id string, input *model.ItemInput) (*model.ShoppingItem, error)

	// Delete removes an item by its ID.
	Delete(ctx context.Context, id string) error

	// TogglePurchased flips the purchased flag and returns the updated item.
	TogglePurchased(ctx context.Context, id string) (*model.ShoppingItem, error)

	// ClearPurchased removes all purchased items and returns how many were removed.
	ClearPurchased(ctx context.Context) (int, error)

	// Reorder arranges the list to match ids.
	Reorder(ctx context.Context, ids []string) error
}

// Notifier receives an event after every successful mutation.
type Notifier interface {
	Publish(event model.ListEvent)
}
