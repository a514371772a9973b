package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hydrotek/service-desk/internal/api/dto"
	"github.com/hydrotek/service-desk/internal/auth"
	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/service"
	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

// StaffTicketsHandler manages the triage endpoints.
type StaffTicketsHandler struct {
	queries *service.QueryService
	triage  *service.TriageService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(queries *service.QueryService, triage *service.TriageService) *StaffTicketsHandler {
	return &StaffTicketsHandler{queries: queries, triage: triage}
}

// List GET /staff/tickets.
func (h *StaffTicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.queries.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// Stats GET /staff/tickets/stats.
func (h *StaffTicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.queries.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// NextStates GET /staff/tickets/:id/transitions lists the legal targets the
// triage UI may offer for the ticket's current status.
func (h *StaffTicketsHandler) NextStates(c *fiber.Ctx) error {
	states, err := h.triage.NextStates(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"next_states": states}})
}

// History GET /staff/tickets/:id/history.
func (h *StaffTicketsHandler) History(c *fiber.Ctx) error {
	changes, err := h.triage.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusChangeResponses(changes)})
}

// UpdateStatus POST /staff/tickets/:id/status applies a confirmed transition
// and returns the re-queried ticket.
func (h *StaffTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return errorutil.NewNotAuthenticated("sign in required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return errorutil.NewValidationError("status required", nil)
	}
	if !domain.TicketStatus(req.Status).Valid() {
		return errorutil.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}

	updated, err := h.triage.RequestTransition(c.UserContext(), identity, c.Params("id"), req.Status, req.Confirm)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(updated)})
}
