package entity

import "github.com/google/uuid"

// Permissions holds the capability flags of one person.
type Permissions struct {
	ID               uuid.UUID
	PersonID         uuid.UUID
	Dashboard        bool
	SeeSelfHistory   bool
	SeeOthersHistory bool
	AdminPanel       bool
	EditPermissions  bool
}

// DefaultLocalPermissions is granted to accounts registered with email and password.
func DefaultLocalPermissions(personID uuid.UUID) *Permissions {
	return &Permissions{
		PersonID:         personID,
		Dashboard:        true,
		SeeSelfHistory:   false,
		SeeOthersHistory: true,
		AdminPanel:       false,
		EditPermissions:  false,
	}
}

// DefaultFederatedPermissions is granted to accounts registered through Google.
func DefaultFederatedPermissions(personID uuid.UUID) *Permissions {
	return &Permissions{
		PersonID:         personID,
		Dashboard:        true,
		SeeSelfHistory:   true,
		SeeOthersHistory: false,
		AdminPanel:       false,
		EditPermissions:  false,
	}
}

// FullPermissions grants every capability.
func FullPermissions(personID uuid.UUID) *Permissions {
	return &Permissions{
		PersonID:         personID,
		Dashboard:        true,
		SeeSelfHistory:   true,
		SeeOthersHistory: true,
		AdminPanel:       true,
		EditPermissions:  true,
	}
}
