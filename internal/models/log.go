package models

import "time"

// LogAction tags a log entry with the lifecycle action that produced it.
type LogAction string

const (
	ActionCheckOut   LogAction = "CHECK_OUT"
	ActionCheckIn    LogAction = "CHECK_IN"
	ActionScanReport LogAction = "SCAN_REPORT"
	ActionRegister   LogAction = "REGISTER"
)

// LogEntry is an immutable record of one lifecycle action taken on an item.
// log_id is store-assigned; item_name and user_name are snapshots taken at
// write time. Entries are append-only and consumers sort by timestamp
// descending; log_id carries no ordering guarantee.
type LogEntry struct {
	LogID             string    `json:"log_id"`
	ItemID            string    `json:"item_id"`
	ItemName          string    `json:"item_name"`
	UserID            string    `json:"user_id"`
	UserName          string    `json:"user_name"`
	Action            LogAction `json:"action"`
	ConditionReported string    `json:"condition_reported"`
	Timestamp         time.Time `json:"timestamp"`
}
