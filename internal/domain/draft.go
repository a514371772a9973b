package domain

// TicketDraft holds the in-memory form state for a new ticket. All fields are
// free-text or date strings; the validator decides which ones are required.
type TicketDraft struct {
	Country      string
	CustomerName string
	Contact      string
	Dealer       string
	Email        string

	MachineModel  string
	MachineSerial string
	MachineHours  string

	AttachmentType   string
	AttachmentModel  string
	AttachmentSerial string
	AttachmentHours  string
	InstalledAt      string
	FailedAt         string

	OperatingPressure string
	FlowRate          string
	OilTemperature    string
	Environment       string
	CarrierSize       string

	Symptom      string
	SymptomNotes string

	IssueStartedAt  string
	PreviousRepairs string
	UsageHistory    string
}

// NewDraft returns an empty draft, pre-filling the submitter email when the
// caller is signed in.
func NewDraft(identity *Identity) TicketDraft {
	draft := TicketDraft{}
	if identity != nil {
		draft.Email = identity.Email
	}
	return draft
}

// StagedFile is one attachment pending upload. Content references the bytes
// received from the client; staged files are never mutated.
type StagedFile struct {
	Name    string
	Size    int64
	Content []byte
}
