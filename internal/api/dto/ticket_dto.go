package dto

import (
	"time"

	"github.com/hydrotek/service-desk/internal/domain"
	"github.com/hydrotek/service-desk/internal/ticket"
)

// StagedFileRequest is one attachment candidate; content arrives base64
// encoded in JSON.
type StagedFileRequest struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Content []byte `json:"content"`
}

// SubmitTicketRequest carries the draft fields plus attachment candidates.
type SubmitTicketRequest struct {
	Country      string `json:"country"`
	CustomerName string `json:"customer_name"`
	Contact      string `json:"contact"`
	Dealer       string `json:"dealer"`
	Email        string `json:"email"`

	MachineModel  string `json:"machine_model"`
	MachineSerial string `json:"machine_serial"`
	MachineHours  string `json:"machine_hours"`

	AttachmentType   string `json:"attachment_type"`
	AttachmentModel  string `json:"attachment_model"`
	AttachmentSerial string `json:"attachment_serial"`
	AttachmentHours  string `json:"attachment_hours"`
	InstalledAt      string `json:"installed_at"`
	FailedAt         string `json:"failed_at"`

	OperatingPressure string `json:"operating_pressure"`
	FlowRate          string `json:"flow_rate"`
	OilTemperature    string `json:"oil_temperature"`
	Environment       string `json:"environment"`
	CarrierSize       string `json:"carrier_size"`

	Symptom      string `json:"symptom"`
	SymptomNotes string `json:"symptom_notes"`

	IssueStartedAt  string `json:"issue_started_at"`
	PreviousRepairs string `json:"previous_repairs"`
	UsageHistory    string `json:"usage_history"`

	Attachments []StagedFileRequest `json:"attachments"`
}

// Draft maps the request onto the domain draft.
func (r SubmitTicketRequest) Draft() domain.TicketDraft {
	return domain.TicketDraft{
		Country:           r.Country,
		CustomerName:      r.CustomerName,
		Contact:           r.Contact,
		Dealer:            r.Dealer,
		Email:             r.Email,
		MachineModel:      r.MachineModel,
		MachineSerial:     r.MachineSerial,
		MachineHours:      r.MachineHours,
		AttachmentType:    r.AttachmentType,
		AttachmentModel:   r.AttachmentModel,
		AttachmentSerial:  r.AttachmentSerial,
		AttachmentHours:   r.AttachmentHours,
		InstalledAt:       r.InstalledAt,
		FailedAt:          r.FailedAt,
		OperatingPressure: r.OperatingPressure,
		FlowRate:          r.FlowRate,
		OilTemperature:    r.OilTemperature,
		Environment:       r.Environment,
		CarrierSize:       r.CarrierSize,
		Symptom:           r.Symptom,
		SymptomNotes:      r.SymptomNotes,
		IssueStartedAt:    r.IssueStartedAt,
		PreviousRepairs:   r.PreviousRepairs,
		UsageHistory:      r.UsageHistory,
	}
}

// StagedFiles converts the attachment candidates. The size used for limit
// checks is always the received content length; the declared size field is a
// client hint and is never trusted.
func (r SubmitTicketRequest) StagedFiles() []domain.StagedFile {
	files := make([]domain.StagedFile, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		files = append(files, domain.StagedFile{Name: a.Name, Size: int64(len(a.Content)), Content: a.Content})
	}
	return files
}

// RejectionResponse reports a refused attachment candidate.
type RejectionResponse struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// RejectionResponses maps stager rejections.
func RejectionResponses(rejected []ticket.Rejection) []RejectionResponse {
	out := make([]RejectionResponse, 0, len(rejected))
	for _, r := range rejected {
		out = append(out, RejectionResponse{Name: r.Name, Reason: string(r.Reason)})
	}
	return out
}

// TicketResponse is the persisted record as returned to clients.
type TicketResponse struct {
	ID           string              `json:"id"`
	TicketNumber int64               `json:"ticket_number"`
	Status       domain.TicketStatus `json:"status"`
	CreatedBy    string              `json:"created_by"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	Country          *string    `json:"country"`
	CustomerName     string     `json:"customer_name"`
	Contact          string     `json:"contact"`
	Dealer           *string    `json:"dealer"`
	Email            *string    `json:"email"`
	AttachmentType   string     `json:"attachment_type"`
	AttachmentModel  string     `json:"attachment_model"`
	AttachmentSerial *string    `json:"attachment_serial"`
	InstalledAt      *time.Time `json:"installed_at"`
	FailedAt         *time.Time `json:"failed_at"`
	Symptom          string     `json:"symptom"`
	Attachments      []string   `json:"attachments"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               t.ID,
		TicketNumber:     t.TicketNumber,
		Status:           t.Status,
		CreatedBy:        t.CreatedBy,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		Country:          t.Country,
		CustomerName:     t.CustomerName,
		Contact:          t.Contact,
		Dealer:           t.Dealer,
		Email:            t.Email,
		AttachmentType:   t.AttachmentType,
		AttachmentModel:  t.AttachmentModel,
		AttachmentSerial: t.AttachmentSerial,
		InstalledAt:      t.InstalledAt,
		FailedAt:         t.FailedAt,
		Symptom:          t.Symptom,
		Attachments:      t.Attachments,
	}
}

// NewTicketResponses maps a slice preserving order.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

// UpdateStatusRequest carries the transition target and the explicit
// confirmation acknowledgement.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Confirm bool                `json:"confirm"`
}

// StatusChangeResponse is one audit entry.
type StatusChangeResponse struct {
	ID        string              `json:"id"`
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	ChangedBy string              `json:"changed_by"`
	ChangedAt time.Time           `json:"changed_at"`
}

// NewStatusChangeResponses maps audit entries.
func NewStatusChangeResponses(changes []domain.StatusChange) []StatusChangeResponse {
	out := make([]StatusChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, StatusChangeResponse{
			ID:        c.ID,
			TicketID:  c.TicketID,
			OldStatus: c.OldStatus,
			NewStatus: c.NewStatus,
			ChangedBy: c.ChangedBy,
			ChangedAt: c.ChangedAt,
		})
	}
	return out
}
