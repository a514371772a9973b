package ticket

import (
	"fmt"
	"strings"

	"github.com/hydrotek/service-desk/internal/domain"
)

// BuildStructuredNotes composes the symptom narrative stored on the ticket:
// the primary symptom text followed by labeled sections built from any
// non-empty optional fields, in a fixed order. Pure string formatting;
// identical drafts always yield identical output.
func BuildStructuredNotes(draft domain.TicketDraft) string {
	main := strings.TrimSpace(draft.Symptom)

	type section struct {
		title string
		rows  []string
	}
	var sections []section

	var machine []string
	appendRow(&machine, "Model", draft.MachineModel)
	appendRow(&machine, "Serial", draft.MachineSerial)
	appendRow(&machine, "Hours", draft.MachineHours)
	if len(machine) > 0 {
		sections = append(sections, section{"Machine information", machine})
	}

	var attachment []string
	appendRow(&attachment, "Type", draft.AttachmentType)
	appendRow(&attachment, "Model", draft.AttachmentModel)
	appendRow(&attachment, "Serial", draft.AttachmentSerial)
	appendRow(&attachment, "Hours", draft.AttachmentHours)
	appendRow(&attachment, "Installation date", draft.InstalledAt)
	appendRow(&attachment, "Failure date", draft.FailedAt)
	if len(attachment) > 0 {
		sections = append(sections, section{"Attachment information", attachment})
	}

	var operating []string
	appendRow(&operating, "Working pressure", draft.OperatingPressure)
	appendRow(&operating, "Flow rate", draft.FlowRate)
	appendRow(&operating, "Oil temperature", draft.OilTemperature)
	appendRow(&operating, "Environment", draft.Environment)
	appendRow(&operating, "Carrier size", draft.CarrierSize)
	if len(operating) > 0 {
		sections = append(sections, section{"Operating conditions", operating})
	}

	var history []string
	appendRow(&history, "Problem started", draft.IssueStartedAt)
	appendRow(&history, "Previous repairs", draft.PreviousRepairs)
	appendRow(&history, "Usage history", draft.UsageHistory)
	if len(history) > 0 {
		sections = append(sections, section{"History", history})
	}

	if notes := strings.TrimSpace(draft.SymptomNotes); notes != "" {
		sections = append(sections, section{"Additional observations", []string{notes}})
	}

	if len(sections) == 0 {
		return main
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, fmt.Sprintf("%s\n- %s", s.title, strings.Join(s.rows, "\n- ")))
	}
	return strings.TrimSpace(main + "\n\n---\n" + strings.Join(parts, "\n\n"))
}

func appendRow(rows *[]string, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	*rows = append(*rows, fmt.Sprintf("%s: %s", label, strings.TrimSpace(value)))
}
