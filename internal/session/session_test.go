package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrotek/service-desk/internal/domain"
)

func TestRegistry_SignInSignOut(t *testing.T) {
	registry := NewRegistry()

	type notification struct {
		email    string
		identity *domain.Identity
	}
	var got []notification
	registry.Subscribe(func(email string, identity *domain.Identity) {
		got = append(got, notification{email, identity})
	})

	registry.SignIn(domain.Identity{Email: "dealer@example.com", Role: domain.RoleCustomer})

	current, ok := registry.Current("dealer@example.com")
	require.True(t, ok)
	assert.Equal(t, domain.RoleCustomer, current.Role)

	registry.SignOut("dealer@example.com")
	_, ok = registry.Current("dealer@example.com")
	assert.False(t, ok)

	require.Len(t, got, 2)
	assert.Equal(t, "dealer@example.com", got[0].email)
	require.NotNil(t, got[0].identity)
	assert.Equal(t, "dealer@example.com", got[0].identity.Email)
	assert.Nil(t, got[1].identity)
}

func TestRegistry_SubscribersAddedLaterMissEarlierChanges(t *testing.T) {
	registry := NewRegistry()
	registry.SignIn(domain.Identity{Email: "early@example.com"})

	calls := 0
	registry.Subscribe(func(string, *domain.Identity) { calls++ })
	registry.SignIn(domain.Identity{Email: "late@example.com"})

	assert.Equal(t, 1, calls)
}

func TestRegistry_SubmissionLatch(t *testing.T) {
	registry := NewRegistry()

	assert.True(t, registry.BeginSubmission("dealer@example.com"))
	assert.False(t, registry.BeginSubmission("dealer@example.com"))
	// different submitter is independent
	assert.True(t, registry.BeginSubmission("other@example.com"))

	registry.EndSubmission("dealer@example.com")
	assert.True(t, registry.BeginSubmission("dealer@example.com"))
}

func TestRegistry_SignOutReleasesLatch(t *testing.T) {
	registry := NewRegistry()
	require.True(t, registry.BeginSubmission("dealer@example.com"))

	registry.SignOut("dealer@example.com")
	assert.True(t, registry.BeginSubmission("dealer@example.com"))
}

func TestRegistry_LatchUnderContention(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if registry.BeginSubmission("dealer@example.com") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
