package ticket

import (
	"regexp"
	"strings"

	"github.com/hydrotek/service-desk/internal/domain"
)

// Same permissive shape the intake form checks: local@domain.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator performs field-level and cross-field validation of a submission
// draft. Pure and synchronous; it never calls the record store.
type Validator struct {
	requireAttachmentSerial bool
}

// NewValidator builds a validator for the deployment profile. The canonical
// required set is customer_name, contact, attachment_type, attachment_model,
// attachment_serial and symptom; requireAttachmentSerial=false selects the
// reduced variant without the serial.
func NewValidator(requireAttachmentSerial bool) *Validator {
	return &Validator{requireAttachmentSerial: requireAttachmentSerial}
}

type requiredField struct {
	key     string
	value   func(domain.TicketDraft) string
	message string
}

func (v *Validator) requiredFields() []requiredField {
	fields := []requiredField{
		{"customer_name", func(d domain.TicketDraft) string { return d.CustomerName }, "Customer / company name is required."},
		{"contact", func(d domain.TicketDraft) string { return d.Contact }, "Contact information is required."},
		{"attachment_type", func(d domain.TicketDraft) string { return d.AttachmentType }, "Attachment type is required."},
		{"attachment_model", func(d domain.TicketDraft) string { return d.AttachmentModel }, "Breaker model is required."},
	}
	if v.requireAttachmentSerial {
		fields = append(fields, requiredField{"attachment_serial", func(d domain.TicketDraft) string { return d.AttachmentSerial }, "Breaker serial number is required."})
	}
	fields = append(fields, requiredField{"symptom", func(d domain.TicketDraft) string { return d.Symptom }, "Please describe the main symptom."})
	return fields
}

// Validate returns a field-name to message mapping; empty means valid.
func (v *Validator) Validate(draft domain.TicketDraft) map[string]string {
	errs := map[string]string{}
	for _, field := range v.requiredFields() {
		if strings.TrimSpace(field.value(draft)) == "" {
			errs[field.key] = field.message
		}
	}
	if email := strings.TrimSpace(draft.Email); email != "" && !emailPattern.MatchString(email) {
		errs["email"] = "Please enter a valid email address."
	}
	return errs
}

// RequiredLeft counts unmet required fields. It gates submit availability and
// is not itself an error.
func (v *Validator) RequiredLeft(draft domain.TicketDraft) int {
	left := 0
	for _, field := range v.requiredFields() {
		if strings.TrimSpace(field.value(draft)) == "" {
			left++
		}
	}
	return left
}
