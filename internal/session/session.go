// Package session tracks live submitter sessions process-wide: explicit
// sign-in/sign-out with subscriber notification, plus the per-submitter latch
// that keeps two submissions from running against the same draft at once.
package session

import (
	"sync"

	"github.com/hydrotek/service-desk/internal/domain"
)

// Listener observes session changes. identity is nil on sign-out.
type Listener func(email string, identity *domain.Identity)

// Registry is the process-wide session context. Components that need to react
// to auth-state changes register a listener instead of polling any global.
type Registry struct {
	mu        sync.Mutex
	active    map[string]domain.Identity
	inFlight  map[string]struct{}
	listeners []Listener
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		active:   make(map[string]domain.Identity),
		inFlight: make(map[string]struct{}),
	}
}

// SignIn records the identity and notifies subscribers.
func (r *Registry) SignIn(identity domain.Identity) {
	r.mu.Lock()
	r.active[identity.Email] = identity
	listeners := append([]Listener{}, r.listeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l(identity.Email, &identity)
	}
}

// SignOut clears the identity and notifies subscribers with a nil identity.
func (r *Registry) SignOut(email string) {
	r.mu.Lock()
	delete(r.active, email)
	delete(r.inFlight, email)
	listeners := append([]Listener{}, r.listeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l(email, nil)
	}
}

// Current returns the live identity for email, if any.
func (r *Registry) Current(email string) (domain.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.active[email]
	return identity, ok
}

// Subscribe registers a listener for sign-in/sign-out changes.
func (r *Registry) Subscribe(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// BeginSubmission latches the submitter. It returns false when a submission
// is already in flight for the same email.
func (r *Registry) BeginSubmission(email string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inFlight[email]; busy {
		return false
	}
	r.inFlight[email] = struct{}{}
	return true
}

// EndSubmission releases the latch.
func (r *Registry) EndSubmission(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, email)
}
