package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydrotek/service-desk/internal/domain"
)

func TestLegalNextStates(t *testing.T) {
	cases := []struct {
		current domain.TicketStatus
		want    []domain.TicketStatus
	}{
		{domain.TicketStatusReceived, []domain.TicketStatus{domain.TicketStatusInProgress, domain.TicketStatusCancelled}},
		{domain.TicketStatusInProgress, []domain.TicketStatus{domain.TicketStatusCompleted, domain.TicketStatusOnHold, domain.TicketStatusCancelled}},
		{domain.TicketStatusOnHold, []domain.TicketStatus{domain.TicketStatusInProgress, domain.TicketStatusCancelled}},
		{domain.TicketStatusCompleted, []domain.TicketStatus{domain.TicketStatusOnHold}},
		{domain.TicketStatusCancelled, []domain.TicketStatus{domain.TicketStatusReceived}},
	}
	for _, tc := range cases {
		t.Run(string(tc.current), func(t *testing.T) {
			assert.Equal(t, tc.want, LegalNextStates(tc.current))
		})
	}

	t.Run("UnknownStatusOffersOnlyReceived", func(t *testing.T) {
		assert.Equal(t,
			[]domain.TicketStatus{domain.TicketStatusReceived},
			LegalNextStates(domain.TicketStatus("archived")))
	})

	t.Run("ReturnedSliceIsACopy", func(t *testing.T) {
		first := LegalNextStates(domain.TicketStatusReceived)
		first[0] = domain.TicketStatusCompleted
		assert.Equal(t,
			[]domain.TicketStatus{domain.TicketStatusInProgress, domain.TicketStatusCancelled},
			LegalNextStates(domain.TicketStatusReceived))
	})
}

func TestIsLegalTransition(t *testing.T) {
	assert.True(t, IsLegalTransition(domain.TicketStatusReceived, domain.TicketStatusInProgress))
	assert.True(t, IsLegalTransition(domain.TicketStatusCompleted, domain.TicketStatusOnHold))
	assert.True(t, IsLegalTransition(domain.TicketStatusCancelled, domain.TicketStatusReceived))

	assert.False(t, IsLegalTransition(domain.TicketStatusCompleted, domain.TicketStatusCancelled))
	assert.False(t, IsLegalTransition(domain.TicketStatusReceived, domain.TicketStatusCompleted))
	assert.False(t, IsLegalTransition(domain.TicketStatusReceived, domain.TicketStatusReceived))

	// every status must be reachable again except via self-loops
	for from, targets := range allowedTransitions {
		for _, to := range targets {
			assert.NotEqual(t, from, to, "self transition in table for %s", from)
			assert.True(t, to.Valid(), "target %s is not a known status", to)
		}
	}
}
