package decision

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"canon-be/pkg/agent"
)

var (
	budgetID  = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	recipesID = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
)

func snapshots() []agent.DocumentSnapshot {
	return []agent.DocumentSnapshot{
		{ID: budgetID, Name: "Budget", Content: "# Budget"},
		{ID: recipesID, Name: "Recipes", Content: "# Recipes"},
	}
}

func TestCorrectDuplicateCreateBecomesEdit(t *testing.T) {
	d := Decision{
		ShouldCreate: true,
		DocumentName: "budget", // case-insensitive match
	}

	got, corrections := Correct(d, snapshots(), "make a budget doc")

	if got.ShouldCreate {
		t.Error("should_create still set after duplicate-name correction")
	}
	if !got.ShouldEdit {
		t.Error("should_edit not set after duplicate-name correction")
	}
	if got.DocumentID != budgetID.String() {
		t.Errorf("document_id = %q, want %q", got.DocumentID, budgetID)
	}
	if !containsCorrection(corrections, CorrectionDuplicateCreateToEdit) {
		t.Errorf("corrections = %v, missing %q", corrections, CorrectionDuplicateCreateToEdit)
	}
}

func TestCorrectUnknownEditTargetClarifies(t *testing.T) {
	d := Decision{
		ShouldEdit: true,
		DocumentID: uuid.NewString(), // not in snapshots
	}

	got, _ := Correct(d, snapshots(), "update it")

	if got.ShouldEdit {
		t.Error("should_edit still set for unknown document")
	}
	if !got.NeedsClarification {
		t.Error("needs_clarification not set for unknown document")
	}
	if got.ConversationalResponse == "" {
		t.Error("no clarification question supplied")
	}
}

func TestCorrectUnparseableEditTargetClarifies(t *testing.T) {
	d := Decision{ShouldEdit: true, DocumentID: "999"}

	got, _ := Correct(d, snapshots(), "update document 999")

	if got.ShouldEdit || !got.NeedsClarification {
		t.Errorf("got should_edit=%v needs_clarification=%v, want false/true", got.ShouldEdit, got.NeedsClarification)
	}
}

func TestCorrectMissingNameExtracted(t *testing.T) {
	d := Decision{
		ShouldCreate:    true,
		IntentStatement: "I'll create a document called Trip Plan.",
	}

	got, corrections := Correct(d, snapshots(), "set up a doc")

	if got.DocumentName != "Trip Plan" {
		t.Errorf("document_name = %q, want %q", got.DocumentName, "Trip Plan")
	}
	if !got.ShouldCreate {
		t.Error("should_create cleared despite recovered name")
	}
	if !containsCorrection(corrections, CorrectionNameExtracted) {
		t.Errorf("corrections = %v, missing %q", corrections, CorrectionNameExtracted)
	}
}

func TestCorrectMissingNameUnresolvableClarifies(t *testing.T) {
	d := Decision{
		ShouldCreate:    true,
		IntentStatement: "I'll set something up.",
	}

	got, corrections := Correct(d, snapshots(), "hmm do the thing")

	if got.ShouldCreate {
		t.Error("should_create still set with no resolvable name")
	}
	if !got.NeedsClarification {
		t.Error("needs_clarification not set with no resolvable name")
	}
	if !containsCorrection(corrections, CorrectionNameUnresolvable) {
		t.Errorf("corrections = %v, missing %q", corrections, CorrectionNameUnresolvable)
	}
}

func TestCorrectExtractedNameCollidesBecomesEdit(t *testing.T) {
	d := Decision{
		ShouldCreate:    true,
		IntentStatement: "I'll create a document called Recipes.",
	}

	got, _ := Correct(d, snapshots(), "keep my recipes somewhere")

	if got.ShouldCreate || !got.ShouldEdit {
		t.Errorf("got should_create=%v should_edit=%v, want false/true", got.ShouldCreate, got.ShouldEdit)
	}
	if got.DocumentID != recipesID.String() {
		t.Errorf("document_id = %q, want %q", got.DocumentID, recipesID)
	}
}

func TestCorrectEditWinsOverCreate(t *testing.T) {
	d := Decision{
		ShouldEdit:   true,
		DocumentID:   budgetID.String(),
		ShouldCreate: true,
		DocumentName: "Something Else",
	}

	got, corrections := Correct(d, snapshots(), "update the budget")

	if got.ShouldCreate {
		t.Error("should_create survived alongside should_edit")
	}
	if !got.ShouldEdit {
		t.Error("should_edit cleared")
	}
	if !containsCorrection(corrections, CorrectionCreateClearedEditWins) {
		t.Errorf("corrections = %v, missing %q", corrections, CorrectionCreateClearedEditWins)
	}
}

func TestCorrectIdempotent(t *testing.T) {
	inputs := []Decision{
		{ShouldCreate: true, DocumentName: "Budget"},
		{ShouldEdit: true, DocumentID: uuid.NewString()},
		{ShouldEdit: true, DocumentID: "garbage"},
		{ShouldCreate: true, IntentStatement: "I'll create a document called Trip Plan."},
		{ShouldCreate: true, IntentStatement: "I'll create a document called Recipes."},
		{ShouldCreate: true},
		{ShouldEdit: true, DocumentID: budgetID.String(), ShouldCreate: true, DocumentName: "X"},
		{NeedsClarification: true, ConversationalResponse: "Which one?"},
		{},
	}

	for i, d := range inputs {
		once, _ := Correct(d, snapshots(), "add my favorite recipes")
		twice, _ := Correct(once, snapshots(), "add my favorite recipes")
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("input %d not idempotent:\nonce:  %+v\ntwice: %+v", i, once, twice)
		}
	}
}

func TestCorrectValidDecisionUntouched(t *testing.T) {
	d := Decision{
		ShouldEdit:      true,
		DocumentID:      budgetID.String(),
		IntentStatement: "I'll update the Budget document",
	}

	got, corrections := Correct(d, snapshots(), "remove the hotel line from the budget")

	if !reflect.DeepEqual(got, d) {
		t.Errorf("valid decision modified: %+v", got)
	}
	if len(corrections) != 0 {
		t.Errorf("corrections = %v, want none", corrections)
	}
}

func containsCorrection(corrections []string, want string) bool {
	for _, c := range corrections {
		if c == want {
			return true
		}
	}
	return false
}
