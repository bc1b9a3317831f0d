package workorder

import "github.com/firewoodbank/fwb/internal/models"

// Validate checks whether actor may move order from its current status to
// the requested one. It is pure: the order snapshot (with Assignees and
// their Users preloaded) carries everything the preconditions need, so the
// full transition table is unit-testable without a store.
//
// Mileage and hours are taken from the request when present, falling back
// to values already stored on the order.
func Validate(order *models.WorkOrder, to Status, actor Actor, mileage, workHours *float64) error {
	if order.IsDeleted {
		return errAlreadyDeleted(order.ID)
	}

	from := Status(order.Status)
	if from.Terminal() {
		return errAlreadyTerminal(from)
	}

	edges, ok := transitions[from]
	if !ok {
		return errIllegalTransition(from, to)
	}
	r, ok := edges[to]
	if !ok {
		return errIllegalTransition(from, to)
	}

	if !r.permits(actor, isAssignee(order, actor.ID)) {
		return errInsufficientPermission(actor.Role, to)
	}

	if r.needsSchedule {
		if order.ScheduledDate == nil {
			return errMissingField("scheduled_date", "A scheduled date is required before scheduling.")
		}
		if !hasLicensedAssignee(order) {
			return errNoAvailableDriver()
		}
	}

	if r.needsCompletionData {
		if mileage == nil {
			mileage = order.Mileage
		}
		if workHours == nil {
			workHours = order.WorkHours
		}
		if mileage == nil {
			return errMissingField("mileage", "Mileage is required to mark completed.")
		}
		if workHours == nil {
			return errMissingField("work_hours", "Work hours are required to mark completed.")
		}
	}

	return nil
}

// permits reports whether the rule admits the actor.
func (r rule) permits(actor Actor, assigned bool) bool {
	for _, role := range r.roles {
		if actor.Role == role {
			return true
		}
	}
	return r.assignee && assigned
}

// isAssignee reports whether userID is on the order's assignee list.
func isAssignee(order *models.WorkOrder, userID string) bool {
	if userID == "" {
		return false
	}
	for _, a := range order.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// hasLicensedAssignee reports whether any assignee holds a valid driver
// license. Assignee Users must be preloaded on the snapshot.
func hasLicensedAssignee(order *models.WorkOrder) bool {
	for _, a := range order.Assignees {
		if a.User.HasValidLicense() && !a.User.IsDeleted {
			return true
		}
	}
	return false
}
