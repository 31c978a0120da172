package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkEntryStatus is the closed lifecycle enumeration of a work entry.
// Persisted values outside the enumeration map to StatusUnknown at the
// storage boundary instead of leaking raw strings into the application.
type WorkEntryStatus string

const (
	StatusPending   WorkEntryStatus = "pending"   // awaiting admin validation, still amendable
	StatusValidated WorkEntryStatus = "validated" // terminal: tariff snapshotted, eligible for invoicing
	StatusUnknown   WorkEntryStatus = "unknown"   // unrecognized persisted value
)

var knownStatuses = map[WorkEntryStatus]bool{
	StatusPending:   true,
	StatusValidated: true,
}

// ParseWorkEntryStatus maps any persisted string onto the enumeration.
// The mapping is total: unrecognized values become StatusUnknown.
func ParseWorkEntryStatus(s string) WorkEntryStatus {
	st := WorkEntryStatus(s)
	if knownStatuses[st] {
		return st
	}
	return StatusUnknown
}

// IsValid reports whether the status belongs to the closed enumeration.
func (s WorkEntryStatus) IsValid() bool { return knownStatuses[s] }

func (s WorkEntryStatus) String() string { return string(s) }

// WorkEntry represents one billable time span submitted by a collaborator.
//
// StartTime and EndTime are HH:MM clock times on Date; EndTime at or before
// StartTime means the span crosses midnight into the next day.
// ComputedHours is always recomputed server-side, never taken from a caller.
// TariffSnapshot is nil while pending and set exactly once at validation,
// copied from the client's current hourly rate; later rate changes must
// never alter it.
type WorkEntry struct {
	ID             string
	CollaboratorID string
	ClientID       string
	ProjectID      string
	Date           time.Time // calendar day, time part zero
	StartTime      string    // HH:MM
	EndTime        string    // HH:MM
	ComputedHours  decimal.Decimal
	Address        string
	Status         WorkEntryStatus
	TariffSnapshot *decimal.Decimal
	AdminComment   string
	Invoiced       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Amount is ComputedHours × TariffSnapshot, zero while no snapshot exists.
func (e *WorkEntry) Amount() decimal.Decimal {
	if e.TariffSnapshot == nil {
		return decimal.Zero
	}
	return e.ComputedHours.Mul(*e.TariffSnapshot)
}
