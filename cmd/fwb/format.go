package main

import (
	"github.com/fatih/color"

	"github.com/firewoodbank/fwb/internal/models"
)

// colorStatus renders a work order status with terminal color: green for
// happy terminals, yellow for in-flight, red for trouble.
func colorStatus(status string) string {
	switch status {
	case "completed", "picked_up", "delivered":
		return color.GreenString(status)
	case "scheduled", "in_progress":
		return color.YellowString(status)
	case "issue", "cancelled":
		return color.RedString(status)
	default:
		return status
	}
}

// shortID abbreviates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func orderCords(o *models.WorkOrder) float64 {
	if o.IsPickup {
		return o.PickupQuantityCords
	}
	return o.DeliverySizeCords
}
