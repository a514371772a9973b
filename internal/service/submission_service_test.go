package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/events"
	"github.com/hydrotek/service-desk/internal/session"
	"github.com/hydrotek/service-desk/internal/ticket"
	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

type submissionFixture struct {
	svc      *SubmissionService
	repo     *fakeTicketRepo
	store    *fakeObjectStore
	events   *recordingDispatcher
	sessions *session.Registry
	cache    *fakeListCache
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		repo:     newFakeTicketRepo(),
		store:    newFakeObjectStore(),
		events:   &recordingDispatcher{},
		sessions: session.NewRegistry(),
		cache:    &fakeListCache{},
	}
	f.svc = NewSubmissionService(SubmissionDependencies{
		TicketRepo: f.repo,
		Store:      f.store,
		Dispatcher: f.events,
		Sessions:   f.sessions,
		Validator:  ticket.NewValidator(true),
		ListCache:  f.cache,
		Logger:     zap.NewNop(),
	})
	return f
}

func submitter() *domain.Identity {
	return &domain.Identity{Email: "dealer@example.com", Role: domain.RoleCustomer}
}

func validDraft() domain.TicketDraft {
	return domain.TicketDraft{
		CustomerName:     "Northfield Farms",
		Contact:          "+1 555 0100",
		AttachmentType:   "hydraulic hammer",
		AttachmentModel:  "HX-900",
		AttachmentSerial: "SN-2042",
		Symptom:          "no impact energy under load",
		MachineModel:     "CAT 320",
		SymptomNotes:     "worse when oil is cold",
	}
}

func stagedFiles(names ...string) []domain.StagedFile {
	var out []domain.StagedFile
	for i, name := range names {
		out = append(out, domain.StagedFile{Name: name, Size: int64(100 + i), Content: []byte(name)})
	}
	return out
}

func TestSubmissionService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesTicketWithAttachmentsInSelectionOrder", func(t *testing.T) {
		f := newSubmissionFixture()
		staged := stagedFiles("front.jpg", "gauge.jpg", "leak.mp4")

		created, err := f.svc.Submit(ctx, submitter(), validDraft(), staged)
		require.NoError(t, err)

		assert.Equal(t, domain.TicketStatusReceived, created.Status)
		assert.Equal(t, "dealer@example.com", created.CreatedBy)
		assert.Equal(t, int64(1001), created.TicketNumber)

		require.Len(t, created.Attachments, 3)
		assert.True(t, strings.HasSuffix(created.Attachments[0], "front.jpg"))
		assert.True(t, strings.HasSuffix(created.Attachments[1], "gauge.jpg"))
		assert.True(t, strings.HasSuffix(created.Attachments[2], "leak.mp4"))
		assert.Len(t, f.store.uploaded(), 3)

		assert.Contains(t, created.Symptom, "no impact energy under load")
		assert.Contains(t, created.Symptom, "Machine information")
		assert.Contains(t, created.Symptom, "Additional observations")
	})

	t.Run("NoAttachmentsIsFine", func(t *testing.T) {
		f := newSubmissionFixture()
		created, err := f.svc.Submit(ctx, submitter(), validDraft(), nil)
		require.NoError(t, err)
		assert.Empty(t, created.Attachments)
		assert.Empty(t, f.store.uploaded())
	})

	t.Run("RejectsUnauthenticatedSubmitter", func(t *testing.T) {
		f := newSubmissionFixture()
		_, err := f.svc.Submit(ctx, nil, validDraft(), nil)
		assert.Equal(t, "NOT_AUTHENTICATED", errorutil.Code(err))
		assert.Zero(t, f.repo.insertCalls)
	})

	t.Run("InvalidDraftNeverTouchesStoreOrRecord", func(t *testing.T) {
		f := newSubmissionFixture()
		draft := validDraft()
		draft.Symptom = ""

		_, err := f.svc.Submit(ctx, submitter(), draft, stagedFiles("front.jpg"))
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", errorutil.Code(err))

		var domainErr *errorutil.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Contains(t, domainErr.Details, "symptom")

		assert.Empty(t, f.store.uploaded())
		assert.Zero(t, f.repo.insertCalls)
	})

	t.Run("TooManyStagedFilesIsOverCapacity", func(t *testing.T) {
		f := newSubmissionFixture()
		var names []string
		for i := 0; i < ticket.MaxFiles+1; i++ {
			names = append(names, fmt.Sprintf("file-%d.jpg", i))
		}

		_, err := f.svc.Submit(ctx, submitter(), validDraft(), stagedFiles(names...))
		assert.Equal(t, "OVER_CAPACITY", errorutil.Code(err))
		assert.Empty(t, f.store.uploaded())
		assert.Zero(t, f.repo.insertCalls)
	})

	t.Run("UploadFailureAbortsWithoutCreatingRecord", func(t *testing.T) {
		f := newSubmissionFixture()
		f.store.failAt = 1

		_, err := f.svc.Submit(ctx, submitter(), validDraft(), stagedFiles("a.jpg", "b.jpg", "c.jpg"))
		require.Error(t, err)
		assert.Equal(t, "UPLOAD_FAILED", errorutil.Code(err))

		// the first blob stays in the store, nothing is rolled back
		assert.Len(t, f.store.uploaded(), 1)
		assert.Zero(t, f.repo.insertCalls)
		assert.Empty(t, f.events.published())
	})

	t.Run("RecordFailureSurfacesCreateFailed", func(t *testing.T) {
		f := newSubmissionFixture()
		f.repo.insertErr = fmt.Errorf("connection refused")

		_, err := f.svc.Submit(ctx, submitter(), validDraft(), nil)
		assert.Equal(t, "CREATE_FAILED", errorutil.Code(err))
		assert.Empty(t, f.events.published())
		assert.Zero(t, f.cache.invalidations)
	})

	t.Run("ConcurrentSubmitOnSameSessionIsRejected", func(t *testing.T) {
		f := newSubmissionFixture()
		require.True(t, f.sessions.BeginSubmission("dealer@example.com"))

		_, err := f.svc.Submit(ctx, submitter(), validDraft(), nil)
		assert.Equal(t, "SUBMISSION_IN_FLIGHT", errorutil.Code(err))

		f.sessions.EndSubmission("dealer@example.com")
		_, err = f.svc.Submit(ctx, submitter(), validDraft(), nil)
		assert.NoError(t, err)
	})

	t.Run("LatchIsReleasedAfterFailure", func(t *testing.T) {
		f := newSubmissionFixture()
		draft := validDraft()
		draft.CustomerName = ""

		_, err := f.svc.Submit(ctx, submitter(), draft, nil)
		require.Error(t, err)

		// the same session can submit again once the failed call returns
		_, err = f.svc.Submit(ctx, submitter(), validDraft(), nil)
		assert.NoError(t, err)
	})

	t.Run("TwoSequentialSubmissionsYieldDistinctRecords", func(t *testing.T) {
		f := newSubmissionFixture()

		first, err := f.svc.Submit(ctx, submitter(), validDraft(), nil)
		require.NoError(t, err)
		second, err := f.svc.Submit(ctx, submitter(), validDraft(), nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, first.TicketNumber+1, second.TicketNumber)
		assert.False(t, second.CreatedAt.Before(first.CreatedAt))
	})

	t.Run("PublishesSubmittedEventAndInvalidatesCaches", func(t *testing.T) {
		f := newSubmissionFixture()

		created, err := f.svc.Submit(ctx, submitter(), validDraft(), stagedFiles("a.jpg"))
		require.NoError(t, err)

		published := f.events.published()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventTicketSubmitted, published[0].Type)
		assert.Equal(t, created.ID, published[0].TicketID)
		payload, ok := published[0].Payload.(events.TicketSubmittedPayload)
		require.True(t, ok)
		assert.Equal(t, created.TicketNumber, payload.TicketNumber)
		assert.Equal(t, 1, payload.AttachmentCount)

		assert.Equal(t, 1, f.cache.invalidations)
	})

	t.Run("OptionalFieldsAreNilWhenBlank", func(t *testing.T) {
		f := newSubmissionFixture()
		draft := validDraft()
		draft.Dealer = "  "
		draft.Email = ""
		draft.InstalledAt = "2026-03-10"
		draft.FailedAt = "not a date"

		created, err := f.svc.Submit(ctx, submitter(), draft, nil)
		require.NoError(t, err)

		assert.Nil(t, created.Dealer)
		assert.Nil(t, created.Email)
		require.NotNil(t, created.InstalledAt)
		assert.Equal(t, "2026-03-10", created.InstalledAt.Format("2006-01-02"))
		assert.Nil(t, created.FailedAt)
	})
}
