package workorder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/audit"
	"github.com/firewoodbank/fwb/internal/db"
	"github.com/firewoodbank/fwb/internal/inventory"
	"github.com/firewoodbank/fwb/internal/models"
)

// Notifier receives successful transition results for best-effort fan-out
// (chat notifications). Implementations must not block for long and must
// swallow their own errors.
type Notifier interface {
	TransitionApplied(res *TransitionResult)
}

// Coordinator orchestrates one status change: validation, inventory
// adjustment, the status write, and the history record, all inside a
// single store transaction.
type Coordinator struct {
	DB       *gorm.DB
	Ledger   *inventory.Ledger
	Notifier Notifier // optional
}

// TransitionRequest is one status-change attempt against a work order.
type TransitionRequest struct {
	OrderID   string
	To        Status
	Actor     Actor
	Mileage   *float64
	WorkHours *float64
}

// TransitionResult reports the committed outcome of a transition.
type TransitionResult struct {
	Order *models.WorkOrder
	From  Status
	To    Status

	// InventoryApplied is false when the transition implied an adjustment
	// but no firewood inventory item exists. The transition still commits;
	// operators watch for this to detect stock drift.
	InventoryApplied bool

	// Warnings carries non-fatal bookkeeping discrepancies (zero clamps,
	// reservations exceeding stock).
	Warnings []string
}

// Transition applies one status change. Everything through the history
// record is atomic: a failure anywhere rolls the whole operation back.
// The audit log entry is written after commit and is best-effort.
//
// A context deadline hitting mid-commit means the outcome is unknown;
// callers should re-read the order rather than assume failure.
func (c *Coordinator) Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if !req.To.Valid() {
		return nil, errUnknownStatus(req.To)
	}

	res := &TransitionResult{To: req.To}

	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.WorkOrder
		err := db.LockForUpdate(tx).
			Preload("Assignees").
			Preload("Assignees.User").
			Where("id = ?", req.OrderID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(req.OrderID)
		}
		if err != nil {
			return errStorage("load work order", err)
		}

		if err := Validate(&order, req.To, req.Actor, req.Mileage, req.WorkHours); err != nil {
			return err
		}

		from := Status(order.Status)
		res.From = from

		if err := c.adjustInventory(tx, &order, from, req.To, res); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     string(req.To),
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		}
		if req.Mileage != nil {
			updates["mileage"] = *req.Mileage
		}
		if req.WorkHours != nil {
			updates["work_hours"] = *req.WorkHours
		}
		switch req.To {
		case StatusCompleted, StatusPickedUp:
			updates["completed_at"] = now
		case StatusCancelled:
			updates["cancelled_at"] = now
		}
		if err := tx.Model(&models.WorkOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return errStorage("update status", err)
		}

		rec := models.TransitionRecord{
			WorkOrderID: order.ID,
			FromStatus:  string(from),
			ToStatus:    string(req.To),
			ActorID:     req.Actor.ID,
			ActorRole:   string(req.Actor.Role),
			Mileage:     req.Mileage,
			WorkHours:   req.WorkHours,
		}
		if err := audit.RecordTransition(tx, &rec); err != nil {
			return errStorage("record history", err)
		}

		if from == StatusDraft && req.To == StatusScheduled {
			if err := c.createDeliveryEvent(tx, &order); err != nil {
				return errStorage("create calendar event", err)
			}
		}

		// Re-read inside the transaction so the result reflects what was
		// committed, not a hand-patched snapshot.
		var updated models.WorkOrder
		if err := tx.Preload("Assignees").Where("id = ?", order.ID).First(&updated).Error; err != nil {
			return errStorage("reload work order", err)
		}
		res.Order = &updated
		return nil
	})
	if err != nil {
		var terr *Error
		if errors.As(err, &terr) {
			return nil, terr
		}
		return nil, errStorage("transition", err)
	}

	// Audit is a compliance aid, not a transactional participant.
	oldVal, newVal := string(res.From), string(req.To)
	audit.LogChange(c.DB, "update_work_order_status", string(req.Actor.Role), req.Actor.ID,
		"work_order", req.OrderID, "status", &oldVal, &newVal)

	for _, w := range res.Warnings {
		log.Printf("workorder: %s: %s", req.OrderID, w)
	}
	if c.Notifier != nil {
		c.Notifier.TransitionApplied(res)
	}
	return res, nil
}

// adjustInventory applies the reservation/on-hand deltas this transition
// implies, if any. A missing wood item is a success no-op, surfaced via
// InventoryApplied=false so drift stays observable.
func (c *Coordinator) adjustInventory(tx *gorm.DB, order *models.WorkOrder, from, to Status, res *TransitionResult) error {
	deltaReserved, deltaOnHand := ReservationDeltas(from, to, orderCords(order))
	if deltaReserved == 0 && deltaOnHand == 0 {
		res.InventoryApplied = true
		return nil
	}

	item, err := c.Ledger.ActiveWoodItem(tx)
	if err != nil {
		return errStorage("resolve inventory", err)
	}
	if item == nil {
		res.Warnings = append(res.Warnings, "no firewood inventory item; adjustment skipped")
		return nil
	}

	adj, err := c.Ledger.Adjust(tx, item, deltaReserved, deltaOnHand)
	if err != nil {
		return errStorage("adjust inventory", err)
	}
	res.InventoryApplied = true
	if w := adj.Warning(); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	return nil
}

// createDeliveryEvent inserts the calendar row for a newly scheduled order.
func (c *Coordinator) createDeliveryEvent(tx *gorm.DB, order *models.WorkOrder) error {
	if order.ScheduledDate == nil {
		return nil
	}
	ev := models.DeliveryEvent{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("Delivery: %s", order.ClientName),
		EventType:   "delivery",
		WorkOrderID: &order.ID,
		StartDate:   *order.ScheduledDate,
	}
	if order.IsPickup {
		ev.Title = fmt.Sprintf("Pickup: %s", order.ClientName)
	}
	return tx.Create(&ev).Error
}

// orderCords returns the wood amount this order moves.
func orderCords(order *models.WorkOrder) float64 {
	if order.IsPickup {
		return order.PickupQuantityCords
	}
	return order.DeliverySizeCords
}
