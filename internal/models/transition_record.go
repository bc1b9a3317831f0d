package models

import "time"

// TransitionRecord is one entry in the append-only work order history.
// Rows are written inside the transition transaction and never updated
// or deleted afterwards.
type TransitionRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	WorkOrderID string `gorm:"size:36;index;not null"`
	FromStatus  string `gorm:"size:16"`
	ToStatus    string `gorm:"size:16"`
	ActorID     string `gorm:"size:36"`
	ActorRole   string `gorm:"size:16"`
	Mileage     *float64
	WorkHours   *float64
	CreatedAt   time.Time `gorm:"index"`
}
