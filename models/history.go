package models

import "time"

// HistoryEntry is one line of a user's audit history. Entries are
// append-only: they are never mutated or removed, and appending is an
// observability side channel that must never fail a primary operation.
type HistoryEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName sets the table name for HistoryEntry model
func (HistoryEntry) TableName() string {
	return "history_entries"
}
