// Package model holds the gorm persistence models. They mirror the SQL schema and are mapped
// to domain entities by the repositories.
package model

import "github.com/google/uuid"

// PersonModel mirrors the 'person' table.
type PersonModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Surname      string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Role         string    `gorm:"type:varchar(20);not null"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	GoogleID     *string   `gorm:"column:google_id;type:varchar(255);uniqueIndex"`
}

// TableName explicitly sets the table name for GORM.
func (PersonModel) TableName() string {
	return "person"
}
