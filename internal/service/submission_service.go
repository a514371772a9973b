package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/events"
	"github.com/hydrotek/service-desk/internal/repository"
	"github.com/hydrotek/service-desk/internal/session"
	"github.com/hydrotek/service-desk/internal/storage"
	"github.com/hydrotek/service-desk/internal/ticket"
	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

// ListCache invalidates cached read paths after writes.
type ListCache interface {
	InvalidateTickets(ctx context.Context)
}

// SubmissionService sequences attachment upload, draft-to-record
// transformation and record creation for one submit call.
type SubmissionService struct {
	tickets    repository.TicketRepository
	store      storage.ObjectStore
	dispatcher events.Dispatcher
	sessions   *session.Registry
	numbering  *ticket.NumberingService
	validator  *ticket.Validator
	listCache  ListCache
	logger     *zap.Logger
}

// SubmissionDependencies bundles collaborators for the orchestrator.
type SubmissionDependencies struct {
	TicketRepo repository.TicketRepository
	Store      storage.ObjectStore
	Dispatcher events.Dispatcher
	Sessions   *session.Registry
	Numbering  *ticket.NumberingService
	Validator  *ticket.Validator
	ListCache  ListCache
	Logger     *zap.Logger
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	return &SubmissionService{
		tickets:    deps.TicketRepo,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		sessions:   deps.Sessions,
		numbering:  deps.Numbering,
		validator:  deps.Validator,
		listCache:  deps.ListCache,
		logger:     deps.Logger,
	}
}

// Submit validates the draft, uploads staged files in selection order, creates
// the persisted record and refreshes the advisory next number. On any failure
// the draft and staged files are left intact so the caller can retry.
func (s *SubmissionService) Submit(ctx context.Context, identity *domain.Identity, draft domain.TicketDraft, staged []domain.StagedFile) (*domain.Ticket, error) {
	if identity == nil || identity.Email == "" {
		return nil, errorutil.NewNotAuthenticated("sign in to submit a service request")
	}
	if s.sessions != nil {
		if !s.sessions.BeginSubmission(identity.Email) {
			return nil, errorutil.NewSubmissionInFlight(identity.Email)
		}
		defer s.sessions.EndSubmission(identity.Email)
	}

	if errs := s.validator.Validate(draft); len(errs) > 0 {
		details := make(map[string]any, len(errs))
		for field, message := range errs {
			details[field] = message
		}
		return nil, errorutil.NewValidationError("please fill in the required fields", details)
	}

	if len(staged) > ticket.MaxFiles {
		return nil, errorutil.NewOverCapacity("too many attachments", map[string]any{
			"count": len(staged),
			"limit": ticket.MaxFiles,
		})
	}

	// Strictly sequential so the resulting URL list preserves selection
	// order. A mid-sequence failure aborts the submission; blobs already
	// stored are not rolled back and are left for the retention policy.
	urls := make([]string, 0, len(staged))
	for _, file := range staged {
		path := storage.ObjectPath(file.Name, time.Now())
		url, err := s.store.Put(ctx, path, file.Content, "")
		if err != nil {
			s.logger.Warn("attachment upload failed, aborting submission",
				zap.String("file", file.Name),
				zap.Int("uploaded_so_far", len(urls)),
				zap.Error(err))
			return nil, errorutil.NewUploadFailed(file.Name, err)
		}
		urls = append(urls, url)
	}

	record := buildRecord(identity, draft, urls)
	if err := s.tickets.Insert(ctx, record); err != nil {
		return nil, errorutil.NewCreateFailed(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketSubmitted,
		TicketID: record.ID,
		Actor:    identity.Email,
		Payload: events.TicketSubmittedPayload{
			TicketNumber:    record.TicketNumber,
			CustomerName:    record.CustomerName,
			AttachmentModel: record.AttachmentModel,
			AttachmentCount: len(record.Attachments),
		},
	})

	if s.numbering != nil {
		s.numbering.Invalidate(ctx)
	}
	if s.listCache != nil {
		s.listCache.InvalidateTickets(ctx)
	}

	s.logger.Info("ticket submitted",
		zap.Int64("ticket_number", record.TicketNumber),
		zap.String("created_by", record.CreatedBy),
		zap.Int("attachments", len(record.Attachments)))
	return record, nil
}

// buildRecord assembles the persisted payload: trimmed strings, nil empty
// optionals, composite narrative in the symptom column, status received.
func buildRecord(identity *domain.Identity, draft domain.TicketDraft, attachmentURLs []string) *domain.Ticket {
	return &domain.Ticket{
		Status:           domain.TicketStatusReceived,
		CreatedBy:        identity.Email,
		Country:          optionalString(draft.Country),
		CustomerName:     strings.TrimSpace(draft.CustomerName),
		Contact:          strings.TrimSpace(draft.Contact),
		Dealer:           optionalString(draft.Dealer),
		Email:            optionalString(draft.Email),
		AttachmentType:   strings.TrimSpace(draft.AttachmentType),
		AttachmentModel:  strings.TrimSpace(draft.AttachmentModel),
		AttachmentSerial: optionalString(draft.AttachmentSerial),
		InstalledAt:      optionalDate(draft.InstalledAt),
		FailedAt:         optionalDate(draft.FailedAt),
		Symptom:          ticket.BuildStructuredNotes(draft),
		Attachments:      attachmentURLs,
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalDate(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil
	}
	return &parsed
}

func (s *SubmissionService) publish(ctx context.Context, event events.Event) {
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
