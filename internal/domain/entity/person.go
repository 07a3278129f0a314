// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "github.com/google/uuid"

// Person is an account that can authenticate and record entries.
// At least one of PasswordHash or FederatedID is set.
type Person struct {
	ID           uuid.UUID
	Name         string
	Surname      string
	Email        string
	Role         Role
	PasswordHash *string // nil for accounts created through federated login
	FederatedID  *string // Google subject identifier
}

// HasPassword reports whether the person can log in with a local password.
func (p *Person) HasPassword() bool {
	return p.PasswordHash != nil && *p.PasswordHash != ""
}

// HasFederatedID reports whether a federated identity is linked.
func (p *Person) HasFederatedID() bool {
	return p.FederatedID != nil && *p.FederatedID != ""
}

// SetPasswordHash replaces the stored hash.
func (p *Person) SetPasswordHash(hash string) {
	p.PasswordHash = &hash
}

// Summary is the public projection returned by federated flows.
func (p *Person) Summary() PersonSummary {
	return PersonSummary{
		ID:    p.ID.String(),
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role.String(),
	}
}

// PersonSummary is the user view returned to clients after federated login.
type PersonSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
