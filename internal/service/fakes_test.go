package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/events"
)

// fakeTicketRepo keeps tickets in memory and mimics the record-store contract,
// including the sequence assignment at insert and the compare-and-swap status
// update.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []*domain.Ticket

	seq    int64
	seqErr error

	insertErr    error
	insertCalls  int
	setStatusErr error
	getErr       error
	listErr      error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{}
}

func (f *fakeTicketRepo) Insert(ctx context.Context, t *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	t.ID = fmt.Sprintf("ticket-%d", len(f.tickets)+1)
	t.TicketNumber = f.maxNumberLocked() + 1
	t.CreatedAt = time.Now().Add(time.Duration(len(f.tickets)) * time.Millisecond)
	t.UpdatedAt = t.CreatedAt
	stored := *t
	f.tickets = append(f.tickets, &stored)
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, t := range f.tickets {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListByCreator(ctx context.Context, email string) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Ticket
	for i := len(f.tickets) - 1; i >= 0; i-- {
		if f.tickets[i].CreatedBy == email {
			out = append(out, *f.tickets[i])
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Ticket
	for i := len(f.tickets) - 1; i >= 0; i-- {
		out = append(out, *f.tickets[i])
	}
	return out, nil
}

func (f *fakeTicketRepo) NextSequenceNumber(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seqErr != nil {
		return 0, f.seqErr
	}
	return f.seq, nil
}

func (f *fakeTicketRepo) MaxTicketNumber(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxNumberLocked(), nil
}

func (f *fakeTicketRepo) SetStatus(ctx context.Context, id string, from, to domain.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setStatusErr != nil {
		return f.setStatusErr
	}
	for _, t := range f.tickets {
		if t.ID == id && t.Status == from {
			t.Status = to
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTicketRepo) maxNumberLocked() int64 {
	max := int64(1000)
	for _, t := range f.tickets {
		if t.TicketNumber > max {
			max = t.TicketNumber
		}
	}
	return max
}

func (f *fakeTicketRepo) add(t domain.Ticket) *domain.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = fmt.Sprintf("ticket-%d", len(f.tickets)+1)
	}
	if t.TicketNumber == 0 {
		t.TicketNumber = f.maxNumberLocked() + 1
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().Add(time.Duration(len(f.tickets)) * time.Millisecond)
		t.UpdatedAt = t.CreatedAt
	}
	stored := t
	f.tickets = append(f.tickets, &stored)
	return &stored
}

// fakeObjectStore records uploads in call order. failAt >= 0 makes the upload
// with that index fail.
type fakeObjectStore struct {
	mu     sync.Mutex
	paths  []string
	failAt int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{failAt: -1}
}

func (f *fakeObjectStore) Put(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt >= 0 && len(f.paths) == f.failAt {
		return "", fmt.Errorf("blob store unavailable")
	}
	f.paths = append(f.paths, path)
	return "https://blobs.example/attachments/" + path, nil
}

func (f *fakeObjectStore) uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.paths...)
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

// fakeChangeRepo stores the audit trail in memory.
type fakeChangeRepo struct {
	mu        sync.Mutex
	changes   []domain.StatusChange
	createErr error
}

func (f *fakeChangeRepo) Create(ctx context.Context, change *domain.StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	change.ID = fmt.Sprintf("change-%d", len(f.changes)+1)
	change.ChangedAt = time.Now()
	f.changes = append(f.changes, *change)
	return nil
}

func (f *fakeChangeRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.StatusChange
	for i := len(f.changes) - 1; i >= 0; i-- {
		if f.changes[i].TicketID == ticketID {
			out = append(out, f.changes[i])
		}
	}
	return out, nil
}

// fakeListCache counts invalidations and optionally serves a canned listing.
type fakeListCache struct {
	mu            sync.Mutex
	invalidations int
	cached        []domain.Ticket
	has           bool
	sets          int
}

func (f *fakeListCache) InvalidateTickets(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
	f.has = false
}

func (f *fakeListCache) GetAllTickets(ctx context.Context) ([]domain.Ticket, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cached, f.has
}

func (f *fakeListCache) SetAllTickets(ctx context.Context, tickets []domain.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached = tickets
	f.has = true
	f.sets++
}
