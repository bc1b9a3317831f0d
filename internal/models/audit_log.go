package models

import "time"

// AuditLog is the append-only operational audit trail. Entity-level fields
// are optional: event-only rows record that an operation ran, field-level
// rows record an old/new value pair.
type AuditLog struct {
	ID       string `gorm:"primaryKey;size:36"`
	Event    string `gorm:"size:64;index"`
	Role     string `gorm:"size:16"`
	Actor    string `gorm:"size:64"`
	Entity   string `gorm:"size:32"`
	EntityID string `gorm:"size:36;index"`
	Field    string `gorm:"size:64"`
	OldValue *string
	NewValue *string

	CreatedAt time.Time `gorm:"index"`
}
