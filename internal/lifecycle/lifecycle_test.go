package lifecycle

import (
	"context"
	"testing"

	"assettrack-api/internal/models"
	"assettrack-api/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItem(t *testing.T, gw *store.Gateway, item models.Item) models.Item {
	t.Helper()
	saved, err := gw.Items.Put(context.Background(), item)
	require.NoError(t, err)
	return saved
}

func availableItem(id, name string) models.Item {
	return models.Item{
		ItemID:        id,
		Name:          name,
		Category:      "General",
		Status:        models.StatusAvailable,
		LastCondition: models.ConditionGood,
	}
}

func TestClaimAvailableItem(t *testing.T) {
	gw := store.NewMemory()
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	actor := Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser}
	item, entry, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, actor)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInUse, item.Status)
	require.NotNil(t, item.CurrentHolderID)
	assert.Equal(t, "u1", *item.CurrentHolderID)
	require.NotNil(t, item.CurrentHolderName)
	assert.Equal(t, "Aisha", *item.CurrentHolderName)

	assert.Equal(t, models.ActionCheckOut, entry.Action)
	assert.Equal(t, "ITM-001", entry.ItemID)
	assert.Equal(t, "Projector", entry.ItemName)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "Aisha", entry.UserName)
	assert.NotEmpty(t, entry.LogID)
}

func TestClaimItemAlreadyInUse(t *testing.T) {
	// Claiming is not guarded; whoever writes last holds the item.
	gw := store.NewMemory()
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser})
	require.NoError(t, err)

	item, _, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, Actor{UID: "u2", Name: "Ben", Role: models.RoleUser})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInUse, item.Status)
	require.NotNil(t, item.CurrentHolderID)
	assert.Equal(t, "u2", *item.CurrentHolderID)

	entries, err := gw.Logs.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestReturnByHolder(t *testing.T) {
	gw := store.NewMemory()
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	actor := Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser}
	_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, actor)
	require.NoError(t, err)

	item, entry, err := mgr.Apply(context.Background(), "ITM-001", ActionReturn, actor)
	require.NoError(t, err)

	assert.Equal(t, models.StatusAvailable, item.Status)
	assert.Nil(t, item.CurrentHolderID)
	assert.Nil(t, item.CurrentHolderName)
	assert.Equal(t, models.ActionCheckIn, entry.Action)
}

func TestReturnByNonHolderRejected(t *testing.T) {
	gw := store.NewMemory()
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser})
	require.NoError(t, err)

	_, _, err = mgr.Apply(context.Background(), "ITM-001", ActionReturn, Actor{UID: "u2", Name: "Ben", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Holder unchanged after the rejected return.
	item, err := gw.Items.Get(context.Background(), "ITM-001")
	require.NoError(t, err)
	require.NotNil(t, item.CurrentHolderID)
	assert.Equal(t, "u1", *item.CurrentHolderID)
}

func TestReturnUnheldItemRejected(t *testing.T) {
	gw := store.NewMemory()
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionReturn, Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReportBrokenByHolderKeepsHolder(t *testing.T) {
	gw := store.NewMemory()
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	actor := Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser}
	_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, actor)
	require.NoError(t, err)

	item, entry, err := mgr.Apply(context.Background(), "ITM-001", ActionReportBroken, actor)
	require.NoError(t, err)

	assert.Equal(t, models.StatusBroken, item.Status)
	assert.Equal(t, models.ConditionDamaged, item.LastCondition)
	// The report does not release the item.
	require.NotNil(t, item.CurrentHolderID)
	assert.Equal(t, "u1", *item.CurrentHolderID)
	assert.Equal(t, models.ActionScanReport, entry.Action)
	assert.Equal(t, string(models.ConditionDamaged), entry.ConditionReported)
}

func TestReportBrokenGuards(t *testing.T) {
	cases := []struct {
		name    string
		held    bool
		actor   Actor
		allowed bool
	}{
		{"stranger on in-use item", true, Actor{UID: "u2", Name: "Ben", Role: models.RoleUser}, false},
		{"admin on in-use item", true, Actor{UID: "a1", Name: "Root", Role: models.RoleAdmin}, true},
		{"anyone on available item", false, Actor{UID: "u2", Name: "Ben", Role: models.RoleUser}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := store.NewMemory()
			mgr := NewManager(gw)
			seedItem(t, gw, availableItem("ITM-001", "Projector"))

			if tc.held {
				_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser})
				require.NoError(t, err)
			}

			_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionReportBroken, tc.actor)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestApplyUnknownItem(t *testing.T) {
	gw := store.NewMemory()
	mgr := NewManager(gw)

	_, _, err := mgr.Apply(context.Background(), "ITM-999", ActionClaim, Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestApplyUnknownAction(t *testing.T) {
	gw := store.NewMemory()
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	_, _, err := mgr.Apply(context.Background(), "ITM-001", Action("DESTROY"), Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// failingLogs rejects every insert to exercise the partial-write path.
type failingLogs struct{}

func (failingLogs) Insert(context.Context, models.LogEntry) (models.LogEntry, error) {
	return models.LogEntry{}, store.ErrUnavailable
}

func (failingLogs) List(context.Context) ([]models.LogEntry, error) {
	return nil, store.ErrUnavailable
}

func TestLogWriteFailureSurfacesPartialWrite(t *testing.T) {
	gw := store.NewMemory()
	gw.Logs = failingLogs{}
	mgr := NewManager(gw)
	seedItem(t, gw, availableItem("ITM-001", "Projector"))

	_, _, err := mgr.Apply(context.Background(), "ITM-001", ActionClaim, Actor{UID: "u1", Name: "Aisha", Role: models.RoleUser})

	var lwe *LogWriteError
	require.ErrorAs(t, err, &lwe)
	assert.Equal(t, "ITM-001", lwe.Item.ItemID)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	// The item write stands even though the log write failed.
	item, err := gw.Items.Get(context.Background(), "ITM-001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInUse, item.Status)
	require.NotNil(t, item.CurrentHolderID)
	assert.Equal(t, "u1", *item.CurrentHolderID)
}
