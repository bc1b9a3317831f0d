// Package inventory owns the stock counters. QuantityOnHand and
// ReservedQuantity are mutated exclusively through Adjust, always inside
// the caller's transaction.
package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/db"
	"github.com/firewoodbank/fwb/internal/models"
)

// Ledger performs atomic quantity adjustments against inventory items.
type Ledger struct {
	// WoodCategory is the category of the item treated as "the" firewood
	// stock when a work order transition needs an adjustment.
	WoodCategory string
}

// AdjustResult reports the quantities after an adjustment and whether the
// zero floor clamped either counter.
type AdjustResult struct {
	Reserved float64
	OnHand   float64

	// Clamped is set when a decrease would have gone below zero and was
	// floored instead. The books are off; the transition still commits.
	Clamped bool

	// OverReserved is set when reservations exceed physical stock after
	// the adjustment. Unresolved policy question; reported, not blocked.
	OverReserved bool
}

// Warning renders the bookkeeping discrepancy for logs and API responses.
// Empty when the adjustment was clean.
func (r AdjustResult) Warning() string {
	switch {
	case r.Clamped:
		return fmt.Sprintf("inventory clamped at zero (reserved=%.2f on_hand=%.2f)", r.Reserved, r.OnHand)
	case r.OverReserved:
		return fmt.Sprintf("reserved %.2f exceeds on-hand %.2f", r.Reserved, r.OnHand)
	}
	return ""
}

// ActiveWoodItem resolves the firewood stock item inside tx, taking a row
// lock so concurrent transitions serialize on it. Returns nil (no error)
// when no such item exists; the caller treats the adjustment as a no-op.
func (l *Ledger) ActiveWoodItem(tx *gorm.DB) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := db.LockForUpdate(tx).
		Where("category = ? AND is_deleted = ?", l.WoodCategory, false).
		Order("name ASC, id ASC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("inventory: resolve wood item: %w", err)
	}
	return &item, nil
}

// Adjust applies deltas to an item's reserved and on-hand quantities and
// persists the result through tx. Both counters are floored at zero; the
// caller must already hold the row lock (ActiveWoodItem takes it).
func (l *Ledger) Adjust(tx *gorm.DB, item *models.InventoryItem, deltaReserved, deltaOnHand float64) (AdjustResult, error) {
	var res AdjustResult

	res.Reserved = item.ReservedQuantity + deltaReserved
	if res.Reserved < 0 {
		res.Reserved = 0
		res.Clamped = true
	}
	res.OnHand = item.QuantityOnHand + deltaOnHand
	if res.OnHand < 0 {
		res.OnHand = 0
		res.Clamped = true
	}
	res.OverReserved = res.Reserved > res.OnHand

	err := tx.Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"reserved_quantity": res.Reserved,
			"quantity_on_hand":  res.OnHand,
			"version":           gorm.Expr("version + 1"),
		}).Error
	if err != nil {
		return AdjustResult{}, fmt.Errorf("inventory: adjust %s: %w", item.ID, err)
	}

	item.ReservedQuantity = res.Reserved
	item.QuantityOnHand = res.OnHand
	return res, nil
}

// List returns all non-deleted items ordered by name.
func List(db *gorm.DB) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := db.Where("is_deleted = ?", false).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	return items, nil
}

// LowStock returns items at or below their reorder threshold once live
// reservations are counted against the shelf quantity.
func LowStock(db *gorm.DB) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := db.Where("is_deleted = ?", false).
		Where("quantity_on_hand - reserved_quantity <= reorder_threshold").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("inventory: low stock: %w", err)
	}
	return items, nil
}
