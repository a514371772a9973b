package ticket

import "github.com/hydrotek/service-desk/internal/domain"

// allowedTransitions is the legal-transition table for ticket statuses.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusReceived:   {domain.TicketStatusInProgress, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress: {domain.TicketStatusCompleted, domain.TicketStatusOnHold, domain.TicketStatusCancelled},
	domain.TicketStatusOnHold:     {domain.TicketStatusInProgress, domain.TicketStatusCancelled},
	domain.TicketStatusCompleted:  {domain.TicketStatusOnHold},
	domain.TicketStatusCancelled:  {domain.TicketStatusReceived},
}

// LegalNextStates returns the statuses a ticket may move to from current.
// An unknown current status conservatively offers only received.
func LegalNextStates(current domain.TicketStatus) []domain.TicketStatus {
	targets, ok := allowedTransitions[current]
	if !ok {
		return []domain.TicketStatus{domain.TicketStatusReceived}
	}
	out := make([]domain.TicketStatus, len(targets))
	copy(out, targets)
	return out
}

// IsLegalTransition reports whether current -> target is in the table.
func IsLegalTransition(current, target domain.TicketStatus) bool {
	for _, candidate := range LegalNextStates(current) {
		if candidate == target {
			return true
		}
	}
	return false
}
