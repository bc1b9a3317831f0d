package models

import "time"

// User is a staff member, lead, admin, or volunteer driver. The driver
// license status feeds the scheduling precondition: an order cannot be
// scheduled without at least one assignee holding a valid license.
type User struct {
	ID                  string `gorm:"primaryKey;size:36"`
	Name                string `gorm:"size:128;not null"`
	Email               string `gorm:"size:128"`
	Telephone           string `gorm:"size:32"`
	Role                string `gorm:"size:16;default:staff;index"`
	AvailabilityNotes   string `gorm:"type:text"`
	DriverLicenseStatus string `gorm:"size:32"`
	Vehicle             string `gorm:"size:64"`

	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSyncedAt *time.Time
	Version      int64 `gorm:"default:1"`
	IsDeleted    bool  `gorm:"default:false;index"`
}

// HasValidLicense reports whether the user can legally drive a delivery.
func (u *User) HasValidLicense() bool {
	return u.DriverLicenseStatus == "valid"
}
