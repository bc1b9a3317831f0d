package models

import "time"

// WorkOrder is a firewood delivery or pickup job for a client. Status is
// mutated only through the workorder transition coordinator; rows are never
// physically deleted, only flagged.
type WorkOrder struct {
	ID            string `gorm:"primaryKey;size:36"`
	ClientID      string `gorm:"size:36;index"`
	ClientNumber  string `gorm:"size:32"`
	ClientName    string `gorm:"size:128"`
	Status        string `gorm:"size:16;default:draft;index"`
	ScheduledDate *time.Time
	Mileage       *float64
	WorkHours     *float64

	// Cords of wood this order represents, fixed at creation time.
	DeliverySizeCords   float64
	PickupQuantityCords float64
	IsPickup            bool

	Directions      string `gorm:"type:text"`
	Notes           string `gorm:"type:text"`
	CreatedByUserID string `gorm:"size:36"`

	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	LastSyncedAt *time.Time
	Version      int64 `gorm:"default:1"`
	IsDeleted    bool  `gorm:"default:false;index"`

	Assignees   []WorkOrderAssignee `gorm:"foreignKey:WorkOrderID"`
	Transitions []TransitionRecord  `gorm:"foreignKey:WorkOrderID"`
}

// WorkOrderAssignee links a work order to a user responsible for fulfilling it.
type WorkOrderAssignee struct {
	WorkOrderID string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"primaryKey;size:36"`

	User User `gorm:"foreignKey:UserID"`
}
