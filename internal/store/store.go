package store

import (
	"context"
	"errors"

	"assettrack-api/internal/models"
)

// The gateway mirrors the hosted document-store contract: three named record
// sets (items, users, logs) with get/list/put/update/delete. Operations do not
// retry; transient transport failures surface as ErrUnavailable and callers
// decide what to do.

var (
	// ErrNotFound reports an absent record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a duplicate-key violation.
	ErrConflict = errors.New("record already exists")
	// ErrUnavailable reports an unreachable or failing backing store.
	ErrUnavailable = errors.New("store unavailable")
)

// ItemStore is the items record set, keyed by item_id.
type ItemStore interface {
	Get(ctx context.Context, itemID string) (models.Item, error)
	// List returns all items ordered by last_updated descending.
	List(ctx context.Context) ([]models.Item, error)
	// Put is a full overwrite upsert; last_updated is refreshed on write.
	Put(ctx context.Context, item models.Item) (models.Item, error)
	// Update merges the patch into the stored record; last_updated is
	// refreshed. The write is unconditional (last-write-wins).
	Update(ctx context.Context, itemID string, patch models.ItemPatch) (models.Item, error)
	Delete(ctx context.Context, itemID string) error
}

// UserStore is the users record set, keyed by uid.
type UserStore interface {
	Get(ctx context.Context, uid string) (models.UserProfile, error)
	List(ctx context.Context) ([]models.UserProfile, error)
	Put(ctx context.Context, profile models.UserProfile) (models.UserProfile, error)
	Update(ctx context.Context, uid string, patch models.UserPatch) (models.UserProfile, error)
	Delete(ctx context.Context, uid string) error
}

// LogStore is the append-only logs record set with store-assigned ids.
type LogStore interface {
	// Insert assigns a log_id and appends the entry. Entries are never
	// mutated or deleted afterwards.
	Insert(ctx context.Context, entry models.LogEntry) (models.LogEntry, error)
	// List returns all entries ordered by timestamp descending.
	List(ctx context.Context) ([]models.LogEntry, error)
}

// Gateway bundles the three record sets behind one handle.
type Gateway struct {
	Items ItemStore
	Users UserStore
	Logs  LogStore
}
