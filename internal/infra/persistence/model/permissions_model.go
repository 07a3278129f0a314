package model

import "github.com/google/uuid"

// PermissionsModel mirrors the 'permissions' table. PersonID is indexed but not unique.
type PermissionsModel struct {
	ID               uuid.UUID    `gorm:"type:char(36);primaryKey"`
	PersonID         uuid.UUID    `gorm:"type:char(36);not null;index"`
	Person           *PersonModel `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
	Dashboard        bool         `gorm:"not null;default:false"`
	SeeSelfHistory   bool         `gorm:"not null;default:false"`
	SeeOthersHistory bool         `gorm:"not null;default:false"`
	AdminPanel       bool         `gorm:"not null;default:false"`
	EditPermissions  bool         `gorm:"not null;default:false"`
}

// TableName explicitly sets the table name for GORM.
func (PermissionsModel) TableName() string {
	return "permissions"
}
