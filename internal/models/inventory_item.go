package models

import "time"

// InventoryItem is a stocked item: split firewood, bar oil, helmets, etc.
// QuantityOnHand and ReservedQuantity are owned by the inventory ledger and
// must never be written directly by other components.
type InventoryItem struct {
	ID               string `gorm:"primaryKey;size:36"`
	Name             string `gorm:"size:128;not null"`
	Category         string `gorm:"size:64;index"`
	Unit             string `gorm:"size:16"`
	QuantityOnHand   float64
	ReservedQuantity float64
	ReorderThreshold float64
	ReorderAmount    *float64
	Notes            string `gorm:"type:text"`
	CreatedByUserID  string `gorm:"size:36"`

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt *time.Time
	Version      int64 `gorm:"default:1"`
	IsDeleted    bool  `gorm:"default:false;index"`
}
