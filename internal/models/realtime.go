package models

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage lives only in page-local memory for the duration of a chat
// session; the server never persists conversations.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DraftForm holds the in-progress detail fields for one issue. Drafts are
// keyed by (wizard session, issue id) so a user can move between selected
// issues without losing entries.
type DraftForm struct {
	When                string `json:"when"`
	Where               string `json:"where"`
	Who                 string `json:"who"`
	What                string `json:"what"`
	EvidenceDescription string `json:"evidenceDescription,omitempty"`
}

// Empty reports whether no field has been filled in.
func (d DraftForm) Empty() bool {
	return d.When == "" && d.Where == "" && d.Who == "" && d.What == "" && d.EvidenceDescription == ""
}

// Call lifecycle statuses as displayed to the caller.
const (
	CallConnecting = "connecting"
	CallActive     = "active"
	CallEnded      = "ended"
)

// CallUpdate is one frame of the call status stream.
type CallUpdate struct {
	Status   string `json:"status"`
	Duration int    `json:"duration"`
	Summary  string `json:"summary,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CallCommand is a frame sent by the caller, currently only {action:"end"}.
// Transcript, when present, seeds the summary request.
type CallCommand struct {
	Action     string `json:"action"`
	Transcript string `json:"transcript,omitempty"`
}
