package models

import "time"

// ItemStatus is the lifecycle state of a tracked asset.
type ItemStatus string

const (
	StatusAvailable ItemStatus = "Available"
	StatusInUse     ItemStatus = "In Use"
	StatusBroken    ItemStatus = "Broken"
)

// Condition is the last reported physical condition of an item.
type Condition string

const (
	ConditionGood    Condition = "Good"
	ConditionDamaged Condition = "Damaged"
)

// Item is a tracked physical asset. The item_id is a stable, human-assigned
// tag and doubles as the QR payload printed on the asset label.
// current_holder_name is a denormalized snapshot of the holder's profile name
// at claim time; it can go stale relative to the user record and that is
// accepted.
type Item struct {
	ItemID            string     `json:"item_id"`
	Name              string     `json:"name"`
	Category          string     `json:"category"`
	Status            ItemStatus `json:"status"`
	CurrentHolderID   *string    `json:"current_holder_id"`
	CurrentHolderName *string    `json:"current_holder_name"`
	LastCondition     Condition  `json:"last_condition"`
	LastUpdated       time.Time  `json:"last_updated"`
}

// ItemPatch is a partial item update. Nil fields are left unchanged.
// ClearHolder distinguishes "set holder to null" from "leave holder alone".
type ItemPatch struct {
	Name          *string
	Category      *string
	Status        *ItemStatus
	HolderID      *string
	HolderName    *string
	ClearHolder   bool
	LastCondition *Condition
}

// CreateItemRequest is the request body for registering a new item.
type CreateItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
}

// UpdateItemRequest is the request body for editing item metadata.
type UpdateItemRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
}

// ValidStatuses lists the three mutually exclusive lifecycle states.
var ValidStatuses = []ItemStatus{StatusAvailable, StatusInUse, StatusBroken}

// IsValidStatus checks if a status is one of the three known states.
func IsValidStatus(s ItemStatus) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}
