// Package digest builds scheduled activity summaries for the charity's
// chat channel: deliveries scheduled and completed, cords moved, and
// items running low.
package digest

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/firewoodbank/fwb/internal/inventory"
	"github.com/firewoodbank/fwb/internal/models"
	"github.com/firewoodbank/fwb/internal/notify"
)

// Report holds computed metrics for one period.
type Report struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	OrdersScheduled int
	OrdersCompleted int
	OrdersCancelled int
	CordsDelivered  float64
	LowStock        []models.InventoryItem
}

// quiet reports whether there is nothing worth posting.
func (r *Report) quiet() bool {
	return r.OrdersScheduled == 0 && r.OrdersCompleted == 0 &&
		r.OrdersCancelled == 0 && len(r.LowStock) == 0
}

// BuildDaily summarizes the last 24 hours. Returns nil when there was no
// activity and nothing is low on stock.
func BuildDaily(db *gorm.DB) (*notify.Event, error) {
	now := time.Now()
	report, err := build(db, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, fmt.Errorf("digest: daily: %w", err)
	}
	if report.quiet() {
		return nil, nil
	}
	ev := Format("Daily firewood digest", report)
	return &ev, nil
}

// BuildWeekly summarizes the last 7 days. Returns nil when quiet.
func BuildWeekly(db *gorm.DB) (*notify.Event, error) {
	now := time.Now()
	report, err := build(db, now.Add(-7*24*time.Hour), now)
	if err != nil {
		return nil, fmt.Errorf("digest: weekly: %w", err)
	}
	if report.quiet() {
		return nil, nil
	}
	ev := Format("Weekly firewood digest", report)
	return &ev, nil
}

// build queries the store for metrics within the given time range.
func build(db *gorm.DB, since, until time.Time) (*Report, error) {
	report := &Report{PeriodStart: since, PeriodEnd: until}

	var scheduled int64
	if err := db.Model(&models.TransitionRecord{}).
		Where("to_status = ? AND created_at >= ? AND created_at < ?", "scheduled", since, until).
		Count(&scheduled).Error; err != nil {
		return nil, err
	}
	report.OrdersScheduled = int(scheduled)

	var completed int64
	if err := db.Model(&models.WorkOrder{}).
		Where("status IN ? AND completed_at >= ? AND completed_at < ?",
			[]string{"completed", "picked_up"}, since, until).
		Count(&completed).Error; err != nil {
		return nil, err
	}
	report.OrdersCompleted = int(completed)

	var cancelled int64
	if err := db.Model(&models.WorkOrder{}).
		Where("status = ? AND cancelled_at >= ? AND cancelled_at < ?", "cancelled", since, until).
		Count(&cancelled).Error; err != nil {
		return nil, err
	}
	report.OrdersCancelled = int(cancelled)

	type sumRow struct{ Total float64 }
	var row sumRow
	if err := db.Model(&models.WorkOrder{}).
		Select("COALESCE(SUM(CASE WHEN is_pickup THEN pickup_quantity_cords ELSE delivery_size_cords END), 0) AS total").
		Where("status IN ? AND completed_at >= ? AND completed_at < ?",
			[]string{"completed", "picked_up"}, since, until).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	report.CordsDelivered = row.Total

	low, err := inventory.LowStock(db)
	if err != nil {
		return nil, err
	}
	report.LowStock = low

	return report, nil
}

// Format renders a report as a chat event.
func Format(title string, r *Report) notify.Event {
	var lines []string
	lines = append(lines, fmt.Sprintf("Scheduled: %d  Completed: %d  Cancelled: %d",
		r.OrdersScheduled, r.OrdersCompleted, r.OrdersCancelled))
	if r.CordsDelivered > 0 {
		lines = append(lines, fmt.Sprintf("Cords delivered: %.2f", r.CordsDelivered))
	}

	color := notify.ColorInfo
	if len(r.LowStock) > 0 {
		color = notify.ColorWarning
		lines = append(lines, "Low stock:")
		for _, item := range r.LowStock {
			free := item.QuantityOnHand - item.ReservedQuantity
			lines = append(lines, fmt.Sprintf("  %s: %.2f %s free (threshold %.2f)",
				item.Name, free, item.Unit, item.ReorderThreshold))
		}
	}

	return notify.Event{
		Title: title,
		Body:  strings.Join(lines, "\n"),
		Color: color,
	}
}
