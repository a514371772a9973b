package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hydrotek/service-desk/internal/api/dto"
	"github.com/hydrotek/service-desk/internal/auth"
	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/service"
	"github.com/hydrotek/service-desk/internal/ticket"
	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

// acceptedMIMEPrefixes is a UI filter hint, not a hard contract: mismatches
// are logged, never rejected.
var acceptedMIMEPrefixes = []string{"image/", "application/pdf", "video/mp4"}

// TicketsHandler manages the customer intake endpoints.
type TicketsHandler struct {
	submissions *service.SubmissionService
	queries     *service.QueryService
	numbering   *ticket.NumberingService
	logger      *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(submissions *service.SubmissionService, queries *service.QueryService, numbering *ticket.NumberingService, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{submissions: submissions, queries: queries, numbering: numbering, logger: logger}
}

// NextNumber GET /tickets/next-number. Display-only; the store re-validates
// at insert time.
func (h *TicketsHandler) NextNumber(c *fiber.Ctx) error {
	next, err := h.numbering.PeekNext(c.UserContext())
	if err != nil {
		return errorutil.NewQueryFailed(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"next_ticket_number": next}})
}

// Submit POST /tickets.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return errorutil.NewNotAuthenticated("sign in to submit a service request")
	}

	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	// Stage candidates through the stager so the size, duplicate and
	// capacity rules apply; rejected files are reported, not fatal.
	stager := ticket.NewStager()
	staged := stager.Add(req.StagedFiles())
	h.warnUnexpectedMIME(staged.Accepted)

	created, err := h.submissions.Submit(c.UserContext(), identity, req.Draft(), stager.List())
	if err != nil {
		return err
	}

	body := fiber.Map{"data": dto.NewTicketResponse(created)}
	if len(staged.Rejected) > 0 {
		body["warning"] = staged.Warning()
		body["rejected_files"] = dto.RejectionResponses(staged.Rejected)
	}
	return c.Status(http.StatusCreated).JSON(body)
}

// ListMine GET /tickets/mine.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return errorutil.NewNotAuthenticated("sign in required")
	}
	tickets, err := h.queries.ListMine(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return errorutil.NewNotAuthenticated("sign in required")
	}
	t, err := h.queries.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if t.CreatedBy != identity.Email && !identity.Role.Staff() {
		return errorutil.NewNotFound("ticket", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(t)})
}

func (h *TicketsHandler) warnUnexpectedMIME(files []domain.StagedFile) {
	for _, f := range files {
		if len(f.Content) == 0 {
			continue
		}
		detected := http.DetectContentType(f.Content)
		accepted := false
		for _, prefix := range acceptedMIMEPrefixes {
			if strings.HasPrefix(detected, prefix) {
				accepted = true
				break
			}
		}
		if !accepted {
			h.logger.Warn("attachment outside accepted media types",
				zap.String("file", f.Name),
				zap.String("detected", detected))
		}
	}
}
