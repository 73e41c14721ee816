package store

import (
	"context"
	"testing"
	"time"

	"assettrack-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryItemsPutGet(t *testing.T) {
	gw := NewMemory()

	saved, err := gw.Items.Put(context.Background(), models.Item{
		ItemID:        "ITM-001",
		Name:          "Projector",
		Category:      "AV",
		Status:        models.StatusAvailable,
		LastCondition: models.ConditionGood,
	})
	require.NoError(t, err)
	assert.False(t, saved.LastUpdated.IsZero(), "Put stamps last_updated")

	got, err := gw.Items.Get(context.Background(), "ITM-001")
	require.NoError(t, err)
	assert.Equal(t, "Projector", got.Name)
}

func TestMemoryItemsGetMissing(t *testing.T) {
	gw := NewMemory()

	_, err := gw.Items.Get(context.Background(), "ITM-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryItemsUpdateMergesPatch(t *testing.T) {
	gw := NewMemory()
	_, err := gw.Items.Put(context.Background(), models.Item{
		ItemID:   "ITM-001",
		Name:     "Projector",
		Category: "AV",
		Status:   models.StatusAvailable,
	})
	require.NoError(t, err)

	status := models.StatusInUse
	holder := "u1"
	holderName := "Aisha"
	updated, err := gw.Items.Update(context.Background(), "ITM-001", models.ItemPatch{
		Status:     &status,
		HolderID:   &holder,
		HolderName: &holderName,
	})
	require.NoError(t, err)

	// Untouched fields survive the patch.
	assert.Equal(t, "Projector", updated.Name)
	assert.Equal(t, "AV", updated.Category)
	assert.Equal(t, models.StatusInUse, updated.Status)
	require.NotNil(t, updated.CurrentHolderID)
	assert.Equal(t, "u1", *updated.CurrentHolderID)
}

func TestMemoryItemsUpdateClearHolder(t *testing.T) {
	gw := NewMemory()
	holder := "u1"
	holderName := "Aisha"
	_, err := gw.Items.Put(context.Background(), models.Item{
		ItemID:            "ITM-001",
		Name:              "Projector",
		Status:            models.StatusInUse,
		CurrentHolderID:   &holder,
		CurrentHolderName: &holderName,
	})
	require.NoError(t, err)

	status := models.StatusAvailable
	updated, err := gw.Items.Update(context.Background(), "ITM-001", models.ItemPatch{
		Status:      &status,
		ClearHolder: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CurrentHolderID)
	assert.Nil(t, updated.CurrentHolderName)
}

func TestMemoryItemsUpdateMissing(t *testing.T) {
	gw := NewMemory()

	name := "X"
	_, err := gw.Items.Update(context.Background(), "ITM-999", models.ItemPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryItemsListNewestFirst(t *testing.T) {
	gw := NewMemory()
	for _, id := range []string{"ITM-001", "ITM-002", "ITM-003"} {
		_, err := gw.Items.Put(context.Background(), models.Item{ItemID: id, Name: id})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	items, err := gw.Items.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "ITM-003", items[0].ItemID)
	assert.Equal(t, "ITM-001", items[2].ItemID)
}

func TestMemoryItemsDelete(t *testing.T) {
	gw := NewMemory()
	_, err := gw.Items.Put(context.Background(), models.Item{ItemID: "ITM-001", Name: "Projector"})
	require.NoError(t, err)

	require.NoError(t, gw.Items.Delete(context.Background(), "ITM-001"))
	_, err = gw.Items.Get(context.Background(), "ITM-001")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, gw.Items.Delete(context.Background(), "ITM-001"), ErrNotFound)
}

func TestMemoryUsersCRUD(t *testing.T) {
	gw := NewMemory()

	_, err := gw.Users.Put(context.Background(), models.UserProfile{
		UID:   "u1",
		Name:  "Aisha",
		Email: "aisha@example.com",
		Role:  models.RoleUser,
	})
	require.NoError(t, err)

	role := models.RoleAdmin
	dept := "Facilities"
	updated, err := gw.Users.Update(context.Background(), "u1", models.UserPatch{Role: &role, Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "Facilities", updated.Department)
	assert.Equal(t, "Aisha", updated.Name)

	require.NoError(t, gw.Users.Delete(context.Background(), "u1"))
	_, err = gw.Users.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryLogsAssignIDAndSortDescending(t *testing.T) {
	gw := NewMemory()
	base := time.Now()

	for i, action := range []models.LogAction{models.ActionCheckOut, models.ActionCheckIn, models.ActionScanReport} {
		entry, err := gw.Logs.Insert(context.Background(), models.LogEntry{
			ItemID:    "ITM-001",
			ItemName:  "Projector",
			UserID:    "u1",
			UserName:  "Aisha",
			Action:    action,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, entry.LogID)
	}

	entries, err := gw.Logs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.ActionScanReport, entries[0].Action)
	assert.Equal(t, models.ActionCheckOut, entries[2].Action)
}
