// Package audit writes the append-only history and audit trails.
//
// Transition records are transactional participants: they are written with
// the status change or not at all. Audit log rows are a compliance aid and
// are best-effort; a failed audit write is logged and never vetoes the
// operation it describes.
package audit

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/models"
)

// RecordTransition appends a history row inside the caller's transaction.
func RecordTransition(tx *gorm.DB, rec *models.TransitionRecord) error {
	if err := tx.Create(rec).Error; err != nil {
		return fmt.Errorf("audit: record transition for %s: %w", rec.WorkOrderID, err)
	}
	return nil
}

// Log appends an audit row recording that an operation ran. Best-effort.
func Log(db *gorm.DB, event, role, actor string) {
	LogChange(db, event, role, actor, "", "", "", nil, nil)
}

// LogChange appends an audit row with entity and field-level detail.
// Best-effort: failures are logged, not returned.
func LogChange(db *gorm.DB, event, role, actor, entity, entityID, field string, oldValue, newValue *string) {
	row := models.AuditLog{
		ID:       uuid.NewString(),
		Event:    event,
		Role:     role,
		Actor:    actor,
		Entity:   entity,
		EntityID: entityID,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("audit: write %s failed: %v", event, err)
	}
}

// History returns the transition records for a work order, oldest first.
func History(db *gorm.DB, workOrderID string) ([]models.TransitionRecord, error) {
	var recs []models.TransitionRecord
	err := db.Where("work_order_id = ?", workOrderID).
		Order("created_at ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("audit: history for %s: %w", workOrderID, err)
	}
	return recs, nil
}

// Recent returns the latest audit log rows, newest first.
func Recent(db *gorm.DB, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.AuditLog
	err := db.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("audit: recent: %w", err)
	}
	return rows, nil
}
