package db

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/models"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Client{},
		&models.User{},
		&models.WorkOrder{},
		&models.WorkOrderAssignee{},
		&models.InventoryItem{},
		&models.TransitionRecord{},
		&models.AuditLog{},
		&models.DeliveryEvent{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// Seed inserts the default split-firewood inventory item and an admin user
// when the database is empty. Safe to call repeatedly.
func Seed(db *gorm.DB, woodCategory string) error {
	var count int64
	if err := db.Model(&models.InventoryItem{}).
		Where("category = ? AND is_deleted = ?", woodCategory, false).
		Count(&count).Error; err != nil {
		return fmt.Errorf("db: count wood items: %w", err)
	}
	if count == 0 {
		item := models.InventoryItem{
			ID:               uuid.NewString(),
			Name:             "Split firewood",
			Category:         woodCategory,
			Unit:             "cords",
			ReorderThreshold: 5,
		}
		if err := db.Create(&item).Error; err != nil {
			return fmt.Errorf("db: seed wood item: %w", err)
		}
	}

	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return fmt.Errorf("db: count admins: %w", err)
	}
	if count == 0 {
		admin := models.User{
			ID:   uuid.NewString(),
			Name: "Admin",
			Role: "admin",
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("db: seed admin user: %w", err)
		}
	}
	return nil
}
