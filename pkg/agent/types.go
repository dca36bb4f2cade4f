package agent

import (
	"strings"

	"github.com/google/uuid"
)

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Chat roles as they appear in decision prompts and stored history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ProjectContext is the project metadata fed into the decision prompt.
type ProjectContext struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// DocumentSnapshot is an immutable view of a document taken at decision time.
// Content may be a head+tail excerpt for large documents (Truncated=true);
// mutation paths re-fetch the live document and never write from a snapshot.
type DocumentSnapshot struct {
	ID                  uuid.UUID
	Name                string
	StandingInstruction string
	Content             string
	ContentLength       int
	Truncated           bool
}

// ChatTurn is one prior message in the conversation, oldest first.
type ChatTurn struct {
	Role    string
	Content string
}

// Context is the assembled decision input for one action.
type Context struct {
	Project   ProjectContext
	Documents []DocumentSnapshot
	History   []ChatTurn
}

// Document returns the snapshot with the given id, or nil.
func (c *Context) Document(id uuid.UUID) *DocumentSnapshot {
	for i := range c.Documents {
		if c.Documents[i].ID == id {
			return &c.Documents[i]
		}
	}
	return nil
}

// DocumentByName returns the snapshot whose name matches case-insensitively, or nil.
func (c *Context) DocumentByName(name string) *DocumentSnapshot {
	for i := range c.Documents {
		if equalFold(c.Documents[i].Name, name) {
			return &c.Documents[i]
		}
	}
	return nil
}

type OutcomeKind string

const (
	OutcomeClarify      OutcomeKind = "clarify"
	OutcomeConfirm      OutcomeKind = "confirm"
	OutcomeEdited       OutcomeKind = "edited"
	OutcomeCreated      OutcomeKind = "created"
	OutcomeCreateFailed OutcomeKind = "create_failed"
	OutcomeConverse     OutcomeKind = "converse"
)

// ActionOutcome is the result of one act() workflow. The dispatcher fills the
// action fields; the composer fills Message and Trace afterwards.
type ActionOutcome struct {
	Kind     OutcomeKind
	Document *DocumentSnapshot

	// Message is the single user-facing reply, set by the composer.
	Message string

	// Trace is the audit record persisted as chat-message metadata.
	Trace DecisionTrace

	// Warnings carries validation issues that survived the retry.
	Warnings []string

	// Raw reply text for the converse path, before composition.
	Reply string

	SearchUsed     bool
	SearchDegraded bool
	Retried        bool

	// FailedName is the name that collided on a create_failed outcome.
	FailedName string
}

// DecisionTrace is the persisted audit view of a request-scoped decision.
type DecisionTrace struct {
	IntentStatement string   `json:"intent_statement"`
	Reasoning       string   `json:"reasoning"`
	Action          string   `json:"action"`
	DocumentID      string   `json:"document_id,omitempty"`
	DocumentName    string   `json:"document_name,omitempty"`
	SearchUsed      bool     `json:"search_used"`
	SearchDegraded  bool     `json:"search_degraded,omitempty"`
	Retried         bool     `json:"retried"`
	Warnings        []string `json:"warnings,omitempty"`
	CorrectionsMade []string `json:"corrections_made,omitempty"`
}
