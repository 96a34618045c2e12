package model

import "fmt"

// Status is the canonical session lifecycle state. Scheduled is the only
// non-terminal state; cancelled and finalized sessions never change again.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusFinalized Status = "finalized"
)

// Legacy status labels used by the previous admin frontend. They are still
// accepted on input and available for display.
const (
	legacyScheduled = "Em andamento"
	legacyCancelled = "Cancelada"
	legacyFinalized = "Finalizada"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusFinalized
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusFinalized:
		return true
	}
	return false
}

// LegacyLabel returns the Portuguese label the old frontend expects.
func (s Status) LegacyLabel() string {
	switch s {
	case StatusScheduled:
		return legacyScheduled
	case StatusCancelled:
		return legacyCancelled
	case StatusFinalized:
		return legacyFinalized
	}
	return string(s)
}

// ParseStatus maps an external status literal to the canonical Status.
// Both the canonical spellings and the legacy Portuguese labels are accepted.
func ParseStatus(raw string) (Status, error) {
	switch raw {
	case string(StatusScheduled), legacyScheduled:
		return StatusScheduled, nil
	case string(StatusCancelled), legacyCancelled:
		return StatusCancelled, nil
	case string(StatusFinalized), legacyFinalized:
		return StatusFinalized, nil
	}
	return "", fmt.Errorf("unknown session status %q", raw)
}
