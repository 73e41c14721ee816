// Package scan resolves decoded code strings to item records and produces
// the printable QR artifact for an item tag. Camera capture and symbol
// decoding happen on the client; by the time a code reaches this package it
// is an opaque string, whether it came from a scanner or manual entry.
package scan

import (
	"context"
	"errors"
	"strings"

	"assettrack-api/internal/models"
	"assettrack-api/internal/store"
)

// ErrEmptyCode reports a blank code, the only format validation performed.
var ErrEmptyCode = errors.New("code must not be empty")

// Resolver looks up items by their scanned identifier.
type Resolver struct {
	items store.ItemStore
}

// NewResolver creates a resolver over the items record set.
func NewResolver(items store.ItemStore) *Resolver {
	return &Resolver{items: items}
}

// Resolve treats code as an item_id and fetches the record. Lookups are
// case-sensitive exact matches, the same string that was encoded into the
// symbol. A missing item returns store.ErrNotFound, never a panic.
// Concurrent resolves are independent idempotent reads.
func (r *Resolver) Resolve(ctx context.Context, code string) (models.Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Item{}, ErrEmptyCode
	}
	return r.items.Get(ctx, code)
}
