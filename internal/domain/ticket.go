package domain

import "time"

// TicketStatus enumerates lifecycle states for service tickets.
type TicketStatus string

const (
	TicketStatusReceived   TicketStatus = "received"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusCompleted  TicketStatus = "completed"
	TicketStatusOnHold     TicketStatus = "on_hold"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// KnownStatuses lists every valid ticket status.
var KnownStatuses = []TicketStatus{
	TicketStatusReceived,
	TicketStatusInProgress,
	TicketStatusCompleted,
	TicketStatusOnHold,
	TicketStatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Ticket is the persisted service-request record. Identity fields and the
// submitted draft fields are immutable after creation; only Status changes,
// and every status change round-trips through the record store.
type Ticket struct {
	ID           string
	TicketNumber int64
	Status       TicketStatus
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Country          *string
	CustomerName     string
	Contact          string
	Dealer           *string
	Email            *string
	AttachmentType   string
	AttachmentModel  string
	AttachmentSerial *string
	InstalledAt      *time.Time
	FailedAt         *time.Time
	Symptom          string
	Attachments      []string
}

// StatusChange is one audit entry for an accepted status transition.
type StatusChange struct {
	ID        string
	TicketID  string
	OldStatus TicketStatus
	NewStatus TicketStatus
	ChangedBy string
	ChangedAt time.Time
}
