package decision

import (
	"github.com/invopop/jsonschema"
)

// Decision is the structured intent produced by the intent model for one
// instruction. It lives only for the duration of the request; only its trace
// is persisted, as chat-message metadata.
type Decision struct {
	ShouldEdit   bool   `json:"should_edit" jsonschema_description:"True when an existing document should be rewritten"`
	ShouldCreate bool   `json:"should_create" jsonschema_description:"True when a new document should be created"`
	DocumentID   string `json:"document_id,omitempty" jsonschema_description:"UUID of the document to edit, when should_edit is true"`
	DocumentName string `json:"document_name,omitempty" jsonschema_description:"Name for the document to create, when should_create is true"`

	// Optional model-proposed initial content and standing instruction for creates.
	DocumentContent     string `json:"document_content,omitempty"`
	StandingInstruction string `json:"standing_instruction,omitempty"`

	NeedsClarification  bool `json:"needs_clarification" jsonschema_description:"True when the instruction is too ambiguous to act on"`
	PendingConfirmation bool `json:"pending_confirmation" jsonschema_description:"True when the action is risky enough to confirm first"`

	NeedsWebSearch bool   `json:"needs_web_search" jsonschema_description:"True when current external information is required"`
	SearchQuery    string `json:"search_query,omitempty"`

	IntentStatement string `json:"intent_statement" jsonschema_description:"First-person statement of the intended action, e.g. 'I'll update the Budget document'"`
	Reasoning       string `json:"reasoning"`

	// ConversationalResponse carries the reply for converse, the question for
	// clarify, and the prompt for confirm.
	ConversationalResponse string `json:"conversational_response,omitempty"`

	ChangeSummary  string `json:"change_summary,omitempty"`
	ContentSummary string `json:"content_summary,omitempty"`
}

// Schema returns the JSON schema the intent model's reply must match.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Decision{})
	return schema.MarshalJSON()
}
