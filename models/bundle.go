package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BundleStatus string

const (
	StatusSubmitted BundleStatus = "submitted"
	StatusPaid      BundleStatus = "paid"
)

func (s BundleStatus) Valid() bool {
	return s == StatusSubmitted || s == StatusPaid
}

// Bundle is a filed program record (RMP) aggregating exactly 3.0 hours of
// training time. FiledDate is stored as UTC midnight so the calendar date is
// timezone-independent. Notes is the bullet-joined notes of the entries that
// went into the bundle, empty if none had one.
type Bundle struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FiledDate time.Time      `gorm:"not null;type:date" json:"filed_date"`
	Status    BundleStatus   `gorm:"not null;size:20;default:submitted" json:"status"`
	Notes     string         `gorm:"type:text" json:"notes"`
	Entries   []LogEntry     `gorm:"foreignKey:BundleID" json:"entries,omitempty"`
}

func (b *Bundle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
