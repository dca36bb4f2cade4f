package decision

import (
	"strings"

	"github.com/google/uuid"

	"canon-be/pkg/agent"
)

// Correction codes recorded in the decision trace.
const (
	CorrectionDuplicateCreateToEdit = "duplicate_create_rewritten_to_edit"
	CorrectionUnknownEditTarget     = "unknown_edit_target_needs_clarification"
	CorrectionNameExtracted         = "missing_name_extracted"
	CorrectionNameUnresolvable      = "missing_name_needs_clarification"
	CorrectionCreateClearedEditWins = "create_cleared_edit_wins"
)

// Correct repairs common model mistakes in a decision. It is a pure function
// over (decision, snapshots, instruction) and is idempotent:
// Correct(Correct(d)) == Correct(d).
func Correct(d Decision, docs []agent.DocumentSnapshot, instruction string) (Decision, []string) {
	var corrections []string

	d = rewriteDuplicateCreate(d, docs, &corrections)

	// Edit pointing at a document we don't have: never guess, ask.
	if d.ShouldEdit && findByID(docs, d.DocumentID) == nil {
		d.ShouldEdit = false
		d.DocumentID = ""
		d.NeedsClarification = true
		if d.ConversationalResponse == "" {
			d.ConversationalResponse = "I couldn't tell which document you meant. Could you name the document you'd like me to update?"
		}
		corrections = append(corrections, CorrectionUnknownEditTarget)
	}

	if d.ShouldCreate && strings.TrimSpace(d.DocumentName) == "" {
		name := ""
		for _, extract := range DefaultNameExtractors {
			if name = extract(d.IntentStatement, instruction); name != "" {
				break
			}
		}
		if name != "" {
			d.DocumentName = name
			corrections = append(corrections, CorrectionNameExtracted)
			// The recovered name may itself collide with an existing document.
			d = rewriteDuplicateCreate(d, docs, &corrections)
		} else {
			d.ShouldCreate = false
			d.NeedsClarification = true
			if d.ConversationalResponse == "" {
				d.ConversationalResponse = "What would you like to call the new document?"
			}
			corrections = append(corrections, CorrectionNameUnresolvable)
		}
	}

	if d.ShouldEdit && d.ShouldCreate {
		d.ShouldCreate = false
		corrections = append(corrections, CorrectionCreateClearedEditWins)
	}

	return d, corrections
}

// rewriteDuplicateCreate turns a create that names an existing document into
// an edit of that document.
func rewriteDuplicateCreate(d Decision, docs []agent.DocumentSnapshot, corrections *[]string) Decision {
	if !d.ShouldCreate || strings.TrimSpace(d.DocumentName) == "" {
		return d
	}
	for i := range docs {
		if strings.EqualFold(strings.TrimSpace(docs[i].Name), strings.TrimSpace(d.DocumentName)) {
			d.ShouldCreate = false
			d.ShouldEdit = true
			d.DocumentID = docs[i].ID.String()
			*corrections = append(*corrections, CorrectionDuplicateCreateToEdit)
			return d
		}
	}
	return d
}

func findByID(docs []agent.DocumentSnapshot, id string) *agent.DocumentSnapshot {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil
	}
	for i := range docs {
		if docs[i].ID == parsed {
			return &docs[i]
		}
	}
	return nil
}
