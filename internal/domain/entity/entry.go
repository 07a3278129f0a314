package entity

import (
	"time"

	"github.com/google/uuid"
)

// EntryAction is the direction of an access event.
type EntryAction string

const (
	ActionEnter EntryAction = "Enter"
	ActionExit  EntryAction = "Exit"
)

// IsValid checks if the action is a known value.
func (a EntryAction) IsValid() bool {
	return a == ActionEnter || a == ActionExit
}

// Entry is a single check-in or check-out of a person.
type Entry struct {
	ID       uuid.UUID
	PersonID uuid.UUID
	Instant  time.Time
	Action   EntryAction
}
