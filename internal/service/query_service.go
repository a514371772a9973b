package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/repository"
	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

// TicketListCache caches the staff listing between refreshes.
type TicketListCache interface {
	GetAllTickets(ctx context.Context) ([]domain.Ticket, bool)
	SetAllTickets(ctx context.Context, tickets []domain.Ticket)
}

// QueryService is the read path: "my tickets" scoped by submitter identity,
// "all tickets" for staff, single lookup and the dashboard stats.
type QueryService struct {
	tickets repository.TicketRepository
	cache   TicketListCache
	logger  *zap.Logger
}

// NewQueryService constructs the service. cache may be nil.
func NewQueryService(tickets repository.TicketRepository, cache TicketListCache, logger *zap.Logger) *QueryService {
	return &QueryService{tickets: tickets, cache: cache, logger: logger}
}

// ListMine returns the caller's tickets, newest first.
func (s *QueryService) ListMine(ctx context.Context, identity *domain.Identity) ([]domain.Ticket, error) {
	if identity == nil || identity.Email == "" {
		return nil, errorutil.NewNotAuthenticated("sign in required")
	}
	tickets, err := s.tickets.ListByCreator(ctx, identity.Email)
	if err != nil {
		return nil, errorutil.NewQueryFailed(err)
	}
	return tickets, nil
}

// ListAll returns every ticket, newest first. Route gating keeps this to
// staff; row-level policy stays with the record store.
func (s *QueryService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	if s.cache != nil {
		if tickets, ok := s.cache.GetAllTickets(ctx); ok {
			return tickets, nil
		}
	}
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, errorutil.NewQueryFailed(err)
	}
	if s.cache != nil {
		s.cache.SetAllTickets(ctx, tickets)
	}
	return tickets, nil
}

// GetByID looks up a single ticket.
func (s *QueryService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, errorutil.NewQueryFailed(err)
	}
	return t, nil
}

// TicketStats aggregates per-status counts for the triage dashboard.
type TicketStats struct {
	Total          int `json:"total"`
	Received       int `json:"received"`
	InProgress     int `json:"in_progress"`
	Completed      int `json:"completed"`
	OnHold         int `json:"on_hold"`
	Cancelled      int `json:"cancelled"`
	CompletionRate int `json:"completion_rate"`
}

// Stats computes the dashboard aggregates from the full listing.
func (s *QueryService) Stats(ctx context.Context) (TicketStats, error) {
	tickets, err := s.ListAll(ctx)
	if err != nil {
		return TicketStats{}, err
	}
	return ComputeStats(tickets), nil
}

// ComputeStats derives counts and the completion rate: completed over
// everything that was not cancelled.
func ComputeStats(tickets []domain.Ticket) TicketStats {
	stats := TicketStats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusReceived:
			stats.Received++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusCompleted:
			stats.Completed++
		case domain.TicketStatusOnHold:
			stats.OnHold++
		case domain.TicketStatusCancelled:
			stats.Cancelled++
		}
	}
	if stats.Total > 0 {
		denominator := stats.Total - stats.Cancelled
		if denominator <= 0 {
			denominator = 1
		}
		stats.CompletionRate = int(float64(stats.Completed)/float64(denominator)*100 + 0.5)
	}
	return stats
}
