// Package cache keeps advisory read-path values in Redis: the peeked next
// ticket number and the staff ticket list. Everything here is best-effort;
// the record store stays the source of truth and cache misses fall through.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/domain"
)

const (
	nextNumberKey = "servicedesk:next_ticket_number"
	allTicketsKey = "servicedesk:tickets:all"

	nextNumberTTL = 30 * time.Second
	listTTL       = 15 * time.Second
)

// Cache wraps the Redis client. A nil Cache (or nil client) is a no-op, so
// the service runs without Redis.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// New builds a Cache over an optional Redis client.
func New(client *redis.Client, logger *zap.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// GetNextNumber returns the cached advisory sequence value.
func (c *Cache) GetNextNumber(ctx context.Context) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	n, err := c.client.Get(ctx, nextNumberKey).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetNextNumber stores the advisory sequence value.
func (c *Cache) SetNextNumber(ctx context.Context, n int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, nextNumberKey, n, nextNumberTTL).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("key", nextNumberKey), zap.Error(err))
	}
}

// InvalidateNextNumber drops the advisory sequence value.
func (c *Cache) InvalidateNextNumber(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, nextNumberKey).Err()
}

// GetAllTickets returns the cached staff listing.
func (c *Cache) GetAllTickets(ctx context.Context) ([]domain.Ticket, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, allTicketsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		_ = c.client.Del(ctx, allTicketsKey).Err()
		return nil, false
	}
	return tickets, true
}

// SetAllTickets stores the staff listing.
func (c *Cache) SetAllTickets(ctx context.Context, tickets []domain.Ticket) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, allTicketsKey, raw, listTTL).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("key", allTicketsKey), zap.Error(err))
	}
}

// InvalidateTickets drops the cached listing; called after any creation or
// accepted transition so staff always re-read what the authority accepted.
func (c *Cache) InvalidateTickets(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, allTicketsKey).Err()
}
