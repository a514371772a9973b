package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/events"
	"github.com/hydrotek/service-desk/internal/repository"
	"github.com/hydrotek/service-desk/internal/ticket"
	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

// TriageService owns the confirm-then-apply transition choreography for
// staff. The legality table gates which targets are offered and accepted;
// who may apply a transition is the record store's decision.
type TriageService struct {
	tickets    repository.TicketRepository
	changes    repository.StatusChangeRepository
	dispatcher events.Dispatcher
	listCache  ListCache
	logger     *zap.Logger
}

// TriageDependencies bundles collaborators.
type TriageDependencies struct {
	TicketRepo repository.TicketRepository
	ChangeRepo repository.StatusChangeRepository
	Dispatcher events.Dispatcher
	ListCache  ListCache
	Logger     *zap.Logger
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	return &TriageService{
		tickets:    deps.TicketRepo,
		changes:    deps.ChangeRepo,
		dispatcher: deps.Dispatcher,
		listCache:  deps.ListCache,
		logger:     deps.Logger,
	}
}

// NextStates returns the legal targets for the ticket's current status.
func (s *TriageService) NextStates(ctx context.Context, ticketID string) ([]domain.TicketStatus, error) {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, errorutil.NewQueryFailed(err)
	}
	return ticket.LegalNextStates(current.Status), nil
}

// RequestTransition applies current -> target through the record store after
// an explicit confirmation. No optimistic local mutation: the returned ticket
// is re-read from the authority.
func (s *TriageService) RequestTransition(ctx context.Context, identity *domain.Identity, ticketID string, target domain.TicketStatus, confirmed bool) (*domain.Ticket, error) {
	if identity == nil || identity.Email == "" {
		return nil, errorutil.NewNotAuthenticated("sign in required")
	}

	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, errorutil.NewQueryFailed(err)
	}

	if !ticket.IsLegalTransition(current.Status, target) {
		return nil, errorutil.NewIllegalTransition(string(current.Status), string(target))
	}
	if !confirmed {
		return nil, errorutil.NewConfirmationRequired(string(target))
	}

	if err := s.tickets.SetStatus(ctx, ticketID, current.Status, target); err != nil {
		return nil, errorutil.NewTransitionFailed(err)
	}

	if s.changes != nil {
		change := &domain.StatusChange{
			TicketID:  ticketID,
			OldStatus: current.Status,
			NewStatus: target,
			ChangedBy: identity.Email,
		}
		if err := s.changes.Create(ctx, change); err != nil {
			s.logger.Warn("failed to record status change", zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticketID,
		Actor:    identity.Email,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: target,
		},
	})

	if s.listCache != nil {
		s.listCache.InvalidateTickets(ctx)
	}

	// Re-query so the caller sees exactly what the authority accepted.
	fresh, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewQueryFailed(err)
	}
	s.logger.Info("ticket status changed",
		zap.String("ticket_id", ticketID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(target)),
		zap.String("changed_by", identity.Email))
	return fresh, nil
}

// History lists the audit trail for a ticket.
func (s *TriageService) History(ctx context.Context, ticketID string) ([]domain.StatusChange, error) {
	if s.changes == nil {
		return []domain.StatusChange{}, nil
	}
	changes, err := s.changes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewQueryFailed(err)
	}
	return changes, nil
}

func (s *TriageService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
