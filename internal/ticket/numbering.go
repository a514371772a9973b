package ticket

import (
	"context"

	"go.uber.org/zap"
)

// BaseTicketNumber seeds the sequence when no tickets exist, so the first
// ticket is numbered 1001.
const BaseTicketNumber = 1000

// SequenceSource is the authoritative counter in the record store.
type SequenceSource interface {
	NextSequenceNumber(ctx context.Context) (int64, error)
	MaxTicketNumber(ctx context.Context) (int64, error)
}

// NumberCache keeps the advisory peeked value off the authority between page
// loads. Implementations may be nil-safe no-ops.
type NumberCache interface {
	GetNextNumber(ctx context.Context) (int64, bool)
	SetNextNumber(ctx context.Context, n int64)
	InvalidateNextNumber(ctx context.Context)
}

// NumberingService produces the next human-facing ticket number for display.
// The value is advisory only: the record store re-resolves the number at
// insert time, so a displayed number may diverge under concurrent submitters.
type NumberingService struct {
	source SequenceSource
	cache  NumberCache
	logger *zap.Logger
}

// NewNumberingService constructs the service. cache may be nil.
func NewNumberingService(source SequenceSource, cache NumberCache, logger *zap.Logger) *NumberingService {
	return &NumberingService{source: source, cache: cache, logger: logger}
}

// PeekNext asks the authoritative counter first and falls back to
// max(ticket_number)+1 when the counter is unavailable.
func (s *NumberingService) PeekNext(ctx context.Context) (int64, error) {
	if s.cache != nil {
		if n, ok := s.cache.GetNextNumber(ctx); ok {
			return n, nil
		}
	}

	next, err := s.source.NextSequenceNumber(ctx)
	if err != nil || next <= 0 {
		if err != nil {
			s.logger.Warn("sequence counter unavailable, using max fallback", zap.Error(err))
		}
		max, maxErr := s.source.MaxTicketNumber(ctx)
		if maxErr != nil {
			return 0, maxErr
		}
		if max < BaseTicketNumber {
			max = BaseTicketNumber
		}
		next = max + 1
	}

	if s.cache != nil {
		s.cache.SetNextNumber(ctx, next)
	}
	return next, nil
}

// Invalidate drops the cached advisory value; called after every successful
// submission so the next peek re-fetches.
func (s *NumberingService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateNextNumber(ctx)
	}
}
