package models

import "time"

// DeliveryEvent is a calendar row. The coordinator creates one when an
// order is scheduled so the calendar UI has something to render; the UI
// itself lives outside this repo.
type DeliveryEvent struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"size:128"`
	EventType   string `gorm:"size:16;default:delivery"`
	WorkOrderID *string `gorm:"size:36;index"`
	StartDate   time.Time
	EndDate     *time.Time
	ColorCode   string `gorm:"size:16"`

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt *time.Time
	Version      int64 `gorm:"default:1"`
	IsDeleted    bool  `gorm:"default:false;index"`
}
