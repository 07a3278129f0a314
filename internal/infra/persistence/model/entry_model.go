package model

import (
	"time"

	"github.com/google/uuid"
)

// EntryModel mirrors the 'entries' table.
type EntryModel struct {
	ID       uuid.UUID    `gorm:"type:char(36);primaryKey"`
	PersonID uuid.UUID    `gorm:"type:char(36);not null;index"`
	Person   *PersonModel `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	Instant  time.Time    `gorm:"not null;index"`
	Action   string       `gorm:"type:varchar(100);not null"`
}

// TableName explicitly sets the table name for GORM.
func (EntryModel) TableName() string {
	return "entries"
}
