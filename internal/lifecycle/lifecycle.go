// Package lifecycle applies the permitted asset actions (claim, return,
// report-broken), always pairing the item mutation with one activity-log
// entry.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assettrack-api/internal/models"
	"assettrack-api/internal/store"
)

// Action is one of the three lifecycle operations a user can perform.
type Action string

const (
	ActionClaim        Action = "CLAIM"
	ActionReturn       Action = "RETURN"
	ActionReportBroken Action = "REPORT_BROKEN"
)

// ErrInvalidTransition reports an action not permitted from the item's
// current state for the given actor.
var ErrInvalidTransition = errors.New("action not permitted from current state")

// Actor identifies who is performing an action.
type Actor struct {
	UID  string
	Name string
	Role models.Role
}

// LogWriteError reports an item mutation that succeeded but whose paired log
// entry could not be recorded. The mutation is not rolled back; the caller
// surfaces the failure and the item state stands.
type LogWriteError struct {
	Item models.Item
	Err  error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("item %s updated but log write failed: %v", e.Item.ItemID, e.Err)
}

func (e *LogWriteError) Unwrap() error { return e.Err }

// Manager validates and applies lifecycle transitions through the gateway.
//
// Writes are unconditional merges with no version check: two holders racing
// to claim the same item both succeed at the write layer and the second
// write wins. That matches the store's last-write-wins contract and is kept
// deliberately rather than fixed with a conditional update.
type Manager struct {
	gw  *store.Gateway
	now func() time.Time
}

// NewManager creates a lifecycle manager over the given gateway.
func NewManager(gw *store.Gateway) *Manager {
	return &Manager{gw: gw, now: time.Now}
}

// Apply performs one action on the item identified by itemID.
//
// It returns store.ErrNotFound when the item does not resolve and
// ErrInvalidTransition when the actor may not perform the action. On success
// it returns the updated item and the appended log entry. A *LogWriteError
// means the item write landed but the log write did not.
func (m *Manager) Apply(ctx context.Context, itemID string, action Action, actor Actor) (models.Item, models.LogEntry, error) {
	item, err := m.gw.Items.Get(ctx, itemID)
	if err != nil {
		return models.Item{}, models.LogEntry{}, err
	}

	var patch models.ItemPatch
	var logAction models.LogAction
	var condition models.Condition

	switch action {
	case ActionClaim:
		// Any authenticated user may claim an existing item, whatever
		// its current status. Matches the legacy behavior.
		status := models.StatusInUse
		condition = models.ConditionGood
		patch = models.ItemPatch{
			Status:        &status,
			HolderID:      &actor.UID,
			HolderName:    &actor.Name,
			LastCondition: &condition,
		}
		logAction = models.ActionCheckOut

	case ActionReturn:
		if item.CurrentHolderID == nil || *item.CurrentHolderID != actor.UID {
			return models.Item{}, models.LogEntry{}, fmt.Errorf("%w: only the current holder may return %s", ErrInvalidTransition, itemID)
		}
		status := models.StatusAvailable
		condition = models.ConditionGood
		patch = models.ItemPatch{
			Status:        &status,
			ClearHolder:   true,
			LastCondition: &condition,
		}
		logAction = models.ActionCheckIn

	case ActionReportBroken:
		if !canReportBroken(item, actor) {
			return models.Item{}, models.LogEntry{}, fmt.Errorf("%w: only the holder, an admin, or anyone while the item is available may report %s broken", ErrInvalidTransition, itemID)
		}
		// Holder fields are left untouched, even when the item is in
		// use. A broken item can still be in someone's hands.
		status := models.StatusBroken
		condition = models.ConditionDamaged
		patch = models.ItemPatch{
			Status:        &status,
			LastCondition: &condition,
		}
		logAction = models.ActionScanReport

	default:
		return models.Item{}, models.LogEntry{}, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	updated, err := m.gw.Items.Update(ctx, itemID, patch)
	if err != nil {
		return models.Item{}, models.LogEntry{}, err
	}

	entry, err := m.gw.Logs.Insert(ctx, models.LogEntry{
		ItemID:            updated.ItemID,
		ItemName:          updated.Name,
		UserID:            actor.UID,
		UserName:          actor.Name,
		Action:            logAction,
		ConditionReported: string(condition),
		Timestamp:         m.now(),
	})
	if err != nil {
		return updated, models.LogEntry{}, &LogWriteError{Item: updated, Err: err}
	}
	return updated, entry, nil
}

func canReportBroken(item models.Item, actor Actor) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	if item.CurrentHolderID != nil && *item.CurrentHolderID == actor.UID {
		return true
	}
	return item.Status == models.StatusAvailable
}
