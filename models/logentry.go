package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogEntry is one training-time record. A manual entry has Start == End and
// carries its duration only in Hours; a timed entry has End after Start.
// A non-null BundleID locks the entry: it can no longer be edited or deleted
// directly, only released by deleting its bundle.
type LogEntry struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hours     float64        `gorm:"not null" json:"hours"`
	Start     time.Time      `gorm:"not null" json:"start"`
	End       time.Time      `gorm:"not null" json:"end"`
	Note      string         `gorm:"size:500" json:"note"`
	BundleID  *string        `gorm:"index;size:36" json:"bundle_id"`
}

func (e *LogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Bundled reports whether the entry is locked into a bundle.
func (e *LogEntry) Bundled() bool {
	return e.BundleID != nil
}
