package workorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/models"
)

// CreateOpts holds parameters for creating a new work order. Orders start
// in draft; everything after that goes through the coordinator.
type CreateOpts struct {
	ClientID            string
	ClientNumber        string
	ClientName          string
	DeliverySizeCords   float64
	PickupQuantityCords float64
	IsPickup            bool
	ScheduledDate       *time.Time
	Directions          string
	Notes               string
	CreatedByUserID     string
}

// ListFilters holds optional filters for listing work orders.
type ListFilters struct {
	Status     string
	ClientID   string
	AssigneeID string
}

// Create inserts a new draft work order.
func Create(db *gorm.DB, opts CreateOpts) (*models.WorkOrder, error) {
	if opts.ClientName == "" {
		return nil, fmt.Errorf("workorder: client name is required")
	}
	if opts.IsPickup && opts.PickupQuantityCords <= 0 {
		return nil, fmt.Errorf("workorder: pickup quantity must be positive")
	}
	if !opts.IsPickup && opts.DeliverySizeCords <= 0 {
		return nil, fmt.Errorf("workorder: delivery size must be positive")
	}

	order := models.WorkOrder{
		ID:                  uuid.NewString(),
		ClientID:            opts.ClientID,
		ClientNumber:        opts.ClientNumber,
		ClientName:          opts.ClientName,
		Status:              string(StatusDraft),
		DeliverySizeCords:   opts.DeliverySizeCords,
		PickupQuantityCords: opts.PickupQuantityCords,
		IsPickup:            opts.IsPickup,
		ScheduledDate:       opts.ScheduledDate,
		Directions:          opts.Directions,
		Notes:               opts.Notes,
		CreatedByUserID:     opts.CreatedByUserID,
	}
	if err := db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("workorder: create: %w", err)
	}
	return &order, nil
}

// Get retrieves a work order by ID with assignees preloaded. Soft-deleted
// orders are reported as not found.
func Get(db *gorm.DB, id string) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := db.Preload("Assignees").Preload("Assignees.User").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("workorder: get %s: %w", id, err)
	}
	return &order, nil
}

// List returns non-deleted work orders matching the filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.WorkOrder, error) {
	q := db.Model(&models.WorkOrder{}).Where("work_orders.is_deleted = ?", false)

	if filters.Status != "" {
		q = q.Where("work_orders.status = ?", filters.Status)
	}
	if filters.ClientID != "" {
		q = q.Where("work_orders.client_id = ?", filters.ClientID)
	}
	if filters.AssigneeID != "" {
		q = q.Joins("JOIN work_order_assignees woa ON woa.work_order_id = work_orders.id").
			Where("woa.user_id = ?", filters.AssigneeID)
	}

	var orders []models.WorkOrder
	if err := q.Preload("Assignees").Order("work_orders.created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("workorder: list: %w", err)
	}
	return orders, nil
}

// Assign replaces the order's assignee set. Only pre-terminal orders may
// be reassigned.
func Assign(db *gorm.DB, orderID string, userIDs []string) error {
	order, err := Get(db, orderID)
	if err != nil {
		return err
	}
	if Status(order.Status).Terminal() {
		return errAlreadyTerminal(Status(order.Status))
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_order_id = ?", orderID).Delete(&models.WorkOrderAssignee{}).Error; err != nil {
			return fmt.Errorf("workorder: clear assignees for %s: %w", orderID, err)
		}
		for _, uid := range userIDs {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ? AND is_deleted = ?", uid, false).Count(&count).Error; err != nil {
				return fmt.Errorf("workorder: check user %s: %w", uid, err)
			}
			if count == 0 {
				return fmt.Errorf("workorder: user not found: %s", uid)
			}
			a := models.WorkOrderAssignee{WorkOrderID: orderID, UserID: uid}
			if err := tx.Create(&a).Error; err != nil {
				return fmt.Errorf("workorder: assign %s to %s: %w", uid, orderID, err)
			}
		}
		return nil
	})
}

// SetScheduledDate stores the planned delivery date on a draft order. The
// date must be in place before the draft→scheduled transition will pass
// validation.
func SetScheduledDate(db *gorm.DB, orderID string, date time.Time) error {
	order, err := Get(db, orderID)
	if err != nil {
		return err
	}
	if Status(order.Status) != StatusDraft {
		return fmt.Errorf("workorder: scheduled date can only be set on draft orders, %s is %s", orderID, order.Status)
	}
	err = db.Model(&models.WorkOrder{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"scheduled_date": date,
			"version":        gorm.Expr("version + 1"),
		}).Error
	if err != nil {
		return fmt.Errorf("workorder: set scheduled date on %s: %w", orderID, err)
	}
	return nil
}

// SoftDelete flags an order deleted, removing it from transition
// eligibility. Rows are never physically removed.
func SoftDelete(db *gorm.DB, orderID string) error {
	result := db.Model(&models.WorkOrder{}).
		Where("id = ? AND is_deleted = ?", orderID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return fmt.Errorf("workorder: delete %s: %w", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errNotFound(orderID)
	}
	return nil
}
