package models

import "time"

// Client is a household receiving firewood. Intake and approval happen in
// the out-of-process forms; work orders snapshot the fields they need, so
// only identity and approval state live here.
type Client struct {
	ID             string `gorm:"primaryKey;size:36"`
	ClientNumber   string `gorm:"size:32;uniqueIndex"`
	Name           string `gorm:"size:128;not null"`
	Telephone      string `gorm:"size:32"`
	ApprovalStatus string `gorm:"size:16;default:pending"`
	Notes          string `gorm:"type:text"`

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt *time.Time
	Version      int64 `gorm:"default:1"`
	IsDeleted    bool  `gorm:"default:false;index"`
}
