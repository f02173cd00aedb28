// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Validation errors for ItemInput.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 255 characters")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrNotesLimit       = errors.New("notes cannot exceed 1000 characters")
	ErrEmptyOrder       = errors.New("ids cannot be empty")
)

// Validation constants.
const (
	MaxNameLength  = 255
	MaxNotesLength = 1000
)

// ShoppingItem is a single entry on the shopping list.
type ShoppingItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Notes       *string `json:"notes,omitempty"`
	IsPurchased bool    `json:"is_purchased"`
}

// NotesOrEmpty returns the notes text, or "" when the item has none.
func (i ShoppingItem) NotesOrEmpty() string {
	if i.Notes == nil {
		return ""
	}
	return *i.Notes
}

// ItemInput carries the caller-editable fields of a ShoppingItem.
// It is the request body for create and update calls.
type ItemInput struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes,omitempty"`
}

// Validate checks if the ItemInput has valid field values.
func (i *ItemInput) Validate() error {
	if i.Name == "" {
		return ErrEmptyName
	}

	if utf8.RuneCountInString(i.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}

	if i.Notes != nil && utf8.RuneCountInString(*i.Notes) > MaxNotesLength {
		return ErrNotesLimit
	}

	return nil
}

// ReorderRequest is the request body for reordering the list.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// Validate checks that the request names at least one id.
func (r *ReorderRequest) Validate() error {
	if len(r.IDs) == 0 {
		return ErrEmptyOrder
	}
	return nil
}

// ClearPurchasedResult reports how many items a clear call removed.
type ClearPurchasedResult struct {
	Removed int `json:"removed"`
}

// StringPtr returns a pointer to s. Handy for optional notes.
func StringPtr(s string) *string {
	return &s
}

// APIResponse is a generic wrapper for successful API responses.
// Data is always present so an empty list encodes as "data":[].
type APIResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// NewSuccessResponse creates a successful API response.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// ErrorResponse represents an error response structure.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ListEvent is pushed to change-feed subscribers after every list mutation.
type ListEvent struct {
	Type      string    `json:"type"`
	ItemID    string    `json:"item_id,omitempty"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// List event types.
const (
	EventItemAdded        = "item_added"
	EventItemUpdated      = "item_updated"
	EventItemDeleted      = "item_deleted"
	EventItemToggled      = "item_toggled"
	EventPurchasedCleared = "purchased_cleared"
	EventItemsReordered   = "items_reordered"
)

// NewListEvent creates a ListEvent stamped with the current time.
// count is the number of live items after the mutation.
func NewListEvent(eventType, itemID string, count int) ListEvent {
	return ListEvent{
		Type:      eventType,
		ItemID:    itemID,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}
