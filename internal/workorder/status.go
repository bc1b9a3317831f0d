// Package workorder implements the work order lifecycle: the status
// transition rules and the coordinator that applies them atomically
// together with inventory reservation changes.
package workorder

// Status is a work order lifecycle state. The set is closed; anything
// else read from the store is treated as an illegal source state.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusIssue      Status = "issue"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusPickedUp   Status = "picked_up"
)

// Role is an actor's permission level, matching the user table.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLead   Role = "lead"
	RoleStaff  Role = "staff"
	RoleDriver Role = "driver"
)

// Actor identifies who is requesting a transition.
type Actor struct {
	ID   string
	Role Role
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusInProgress, StatusDelivered,
		StatusIssue, StatusCompleted, StatusCancelled, StatusPickedUp:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusPickedUp:
		return true
	}
	return false
}

// Reserving reports whether inventory is earmarked while an order sits in s.
func (s Status) Reserving() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusDelivered:
		return true
	}
	return false
}

// Deducting reports whether entering s removes wood from physical stock.
func (s Status) Deducting() bool {
	return s == StatusCompleted || s == StatusPickedUp
}

// rule describes one edge of the transition table.
type rule struct {
	roles    []Role // roles always permitted
	assignee bool   // an assigned driver is also permitted

	needsSchedule       bool // scheduled_date + a licensed assignee
	needsCompletionData bool // mileage + work_hours
}

// staffUp is shorthand for the staff/lead/admin role set.
var staffUp = []Role{RoleStaff, RoleLead, RoleAdmin}

// leadUp is shorthand for the lead/admin role set.
var leadUp = []Role{RoleLead, RoleAdmin}

// transitions is the full transition table. Absent edges are illegal;
// terminal states have no outgoing edges at all.
var transitions = map[Status]map[Status]rule{
	StatusDraft: {
		StatusScheduled: {roles: staffUp, needsSchedule: true},
		StatusCancelled: {roles: staffUp},
	},
	StatusScheduled: {
		StatusInProgress: {roles: staffUp, assignee: true},
		StatusCompleted:  {roles: leadUp, needsCompletionData: true},
		StatusCancelled:  {roles: staffUp},
		StatusPickedUp:   {roles: staffUp},
	},
	StatusInProgress: {
		StatusDelivered: {roles: staffUp, assignee: true},
		StatusCompleted: {roles: leadUp, needsCompletionData: true},
		StatusIssue:     {roles: staffUp, assignee: true},
		StatusPickedUp:  {roles: staffUp},
	},
	StatusDelivered: {
		StatusCompleted:  {roles: leadUp, needsCompletionData: true},
		StatusInProgress: {roles: leadUp},
	},
	StatusIssue: {
		StatusInProgress: {roles: staffUp},
	},
}

// ReservationDeltas computes the inventory adjustment a from→to transition
// triggers for an order worth cords of wood. Entering a deducting status
// releases any live reservation and removes the wood from stock; crossing
// the reserving boundary moves the reservation alone.
func ReservationDeltas(from, to Status, cords float64) (deltaReserved, deltaOnHand float64) {
	if cords == 0 {
		return 0, 0
	}
	if to.Deducting() {
		if from.Reserving() {
			deltaReserved = -cords
		}
		deltaOnHand = -cords
		return deltaReserved, deltaOnHand
	}
	switch {
	case !from.Reserving() && to.Reserving():
		deltaReserved = cords
	case from.Reserving() && !to.Reserving():
		deltaReserved = -cords
	}
	return deltaReserved, 0
}
