package ticket

import (
	"fmt"
	"sync"

	"github.com/hydrotek/service-desk/internal/domain"
)

const (
	// MaxFileSize caps one staged attachment at 15 MiB.
	MaxFileSize = 15 * 1024 * 1024
	// MaxFiles caps the total staged count.
	MaxFiles = 12
)

// RejectReason classifies why a candidate file was not staged.
type RejectReason string

const (
	RejectTooLarge     RejectReason = "too_large"
	RejectDuplicate    RejectReason = "duplicate"
	RejectOverCapacity RejectReason = "over_capacity"
)

// Rejection pairs a candidate name with the reason it was refused.
type Rejection struct {
	Name   string
	Reason RejectReason
}

// AddResult reports the outcome of one Add call. Any rejection is surfaced as
// one aggregate warning, not per-file errors.
type AddResult struct {
	Accepted []domain.StagedFile
	Rejected []Rejection
}

// Warning returns a single human message when anything was rejected.
func (r AddResult) Warning() string {
	if len(r.Rejected) == 0 {
		return ""
	}
	return fmt.Sprintf("some files were not attached (%d rejected)", len(r.Rejected))
}

// Stager owns the in-progress attachment selection for one submission
// session: dedup by (name, size), per-file size limit, total-count capacity.
// Purely in-memory; nothing touches the object store until submit.
type Stager struct {
	mu    sync.Mutex
	files []domain.StagedFile
	over  bool
}

// NewStager returns an empty stager.
func NewStager() *Stager {
	return &Stager{}
}

// Add stages candidates subject to the limits. Candidates beyond the
// remaining capacity are rejected, never queued.
func (s *Stager) Add(candidates []domain.StagedFile) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.files))
	for _, f := range s.files {
		existing[stageKey(f.Name, f.Size)] = struct{}{}
	}

	var result AddResult
	for _, candidate := range candidates {
		if candidate.Size > MaxFileSize {
			result.Rejected = append(result.Rejected, Rejection{Name: candidate.Name, Reason: RejectTooLarge})
			continue
		}
		key := stageKey(candidate.Name, candidate.Size)
		if _, dup := existing[key]; dup {
			result.Rejected = append(result.Rejected, Rejection{Name: candidate.Name, Reason: RejectDuplicate})
			continue
		}
		if len(s.files) >= MaxFiles {
			result.Rejected = append(result.Rejected, Rejection{Name: candidate.Name, Reason: RejectOverCapacity})
			s.over = true
			continue
		}
		existing[key] = struct{}{}
		s.files = append(s.files, candidate)
		result.Accepted = append(result.Accepted, candidate)
	}

	// The over-capacity warning clears only when the selection actually
	// changed; rejection-only calls (all duplicates, all too large) keep it.
	if len(result.Accepted) > 0 && !anyOverCapacity(result.Rejected) {
		s.over = false
	}
	return result
}

// Remove drops the staged file with the given name. The over-capacity warning
// clears exactly when the count returns within the limit.
func (s *Stager) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.files[:0]
	for _, f := range s.files {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	s.files = kept
	if len(s.files) <= MaxFiles {
		s.over = false
	}
}

// List returns the staged files in selection order.
func (s *Stager) List() []domain.StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.StagedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Count returns the number of staged files.
func (s *Stager) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// OverCapacity reports whether the last Add hit the count limit and the
// condition has not been resolved since.
func (s *Stager) OverCapacity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Reset drops all staged files, used after a successful submission consumes
// them.
func (s *Stager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
	s.over = false
}

func stageKey(name string, size int64) string {
	return fmt.Sprintf("%s-%d", name, size)
}

func anyOverCapacity(rejected []Rejection) bool {
	for _, r := range rejected {
		if r.Reason == RejectOverCapacity {
			return true
		}
	}
	return false
}
