package ticket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hydrotek/service-desk/internal/domain"
)

func TestBuildStructuredNotes(t *testing.T) {
	t.Run("SymptomOnlyHasNoSeparator", func(t *testing.T) {
		notes := BuildStructuredNotes(domain.TicketDraft{Symptom: "  arm drifts  "})
		assert.Equal(t, "arm drifts", notes)
		assert.NotContains(t, notes, "---")
	})

	t.Run("SectionsFollowFixedOrder", func(t *testing.T) {
		draft := domain.TicketDraft{
			Symptom:           "arm drifts",
			MachineModel:      "CAT 320",
			AttachmentType:    "hammer",
			OperatingPressure: "320 bar",
			IssueStartedAt:    "last week",
			SymptomNotes:      "worse when cold",
		}
		notes := BuildStructuredNotes(draft)

		titles := []string{
			"Machine information",
			"Attachment information",
			"Operating conditions",
			"History",
			"Additional observations",
		}
		last := -1
		for _, title := range titles {
			idx := strings.Index(notes, title)
			assert.Greater(t, idx, last, "%s out of order", title)
			last = idx
		}
		assert.True(t, strings.HasPrefix(notes, "arm drifts\n\n---\n"))
	})

	t.Run("EmptySectionsAreOmitted", func(t *testing.T) {
		draft := domain.TicketDraft{
			Symptom:      "arm drifts",
			MachineModel: "CAT 320",
		}
		notes := BuildStructuredNotes(draft)
		assert.Contains(t, notes, "Machine information\n- Model: CAT 320")
		assert.NotContains(t, notes, "Attachment information")
		assert.NotContains(t, notes, "Operating conditions")
		assert.NotContains(t, notes, "History")
	})

	t.Run("RowsUseLabelColonValue", func(t *testing.T) {
		draft := domain.TicketDraft{
			Symptom:          "leak",
			AttachmentType:   "mulcher",
			AttachmentModel:  "MX-40",
			AttachmentSerial: " SN-1 ",
			InstalledAt:      "2026-01-15",
		}
		notes := BuildStructuredNotes(draft)
		assert.Contains(t, notes, "Attachment information\n- Type: mulcher\n- Model: MX-40\n- Serial: SN-1\n- Installation date: 2026-01-15")
	})

	t.Run("Deterministic", func(t *testing.T) {
		draft := domain.TicketDraft{Symptom: "leak", MachineModel: "A", UsageHistory: "daily"}
		assert.Equal(t, BuildStructuredNotes(draft), BuildStructuredNotes(draft))
	})
}
