package generate

import (
	"context"
	"strings"
	"testing"

	"canon-be/internal/pkg/logger"
	"canon-be/pkg/agent"
)

type fakeModel struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeModel) CompleteStructured(_ context.Context, _ string, _ []byte) (string, error) {
	return "", nil
}

func (f *fakeModel) CompleteText(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }
func (noopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (noopLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, nil }

func TestRewritePromptCarriesFullContent(t *testing.T) {
	model := &fakeModel{reply: "# Budget\n\nUpdated.\n"}
	g := NewGenerator(model, noopLogger{})

	current := "# Budget\n\n## Travel\n- hotel: $400\n\n## Food\n- groceries: $200\n"
	got, err := g.Rewrite(context.Background(), RewriteInput{
		Instruction:         "remove the hotel line",
		DocumentName:        "Budget",
		StandingInstruction: "keep amounts in USD",
		CurrentContent:      current,
	})
	if err != nil {
		t.Fatalf("Rewrite error: %v", err)
	}
	if got != "# Budget\n\nUpdated.\n" {
		t.Errorf("content = %q", got)
	}

	if !strings.Contains(model.lastPrompt, current) {
		t.Error("prompt missing full current content")
	}
	if !strings.Contains(model.lastPrompt, "keep amounts in USD") {
		t.Error("prompt missing standing instruction")
	}
	if !strings.Contains(model.lastPrompt, "remove the hotel line") {
		t.Error("prompt missing instruction")
	}
	if strings.Contains(model.lastPrompt, "<corrections>") {
		t.Error("corrections section present without feedback")
	}
}

func TestRewriteStripsWrappingFence(t *testing.T) {
	model := &fakeModel{reply: "```markdown\n# Plan\n\nBody.\n```"}
	g := NewGenerator(model, noopLogger{})

	got, err := g.Rewrite(context.Background(), RewriteInput{
		Instruction:  "start a plan",
		DocumentName: "Plan",
	})
	if err != nil {
		t.Fatalf("Rewrite error: %v", err)
	}
	if got != "# Plan\n\nBody." {
		t.Errorf("content = %q", got)
	}
}

func TestRewriteCorrectiveFeedbackInPrompt(t *testing.T) {
	model := &fakeModel{reply: "# Fixed\n"}
	g := NewGenerator(model, noopLogger{})

	_, err := g.Rewrite(context.Background(), RewriteInput{
		Instruction:        "update the plan",
		DocumentName:       "Plan",
		CurrentContent:     "# Plan\n",
		CorrectiveFeedback: []string{"found placeholder in output: TBD"},
	})
	if err != nil {
		t.Fatalf("Rewrite error: %v", err)
	}
	if !strings.Contains(model.lastPrompt, "found placeholder in output: TBD") {
		t.Error("corrective feedback missing from prompt")
	}
}

func TestRewriteEmptyReplyFails(t *testing.T) {
	model := &fakeModel{reply: "   "}
	g := NewGenerator(model, noopLogger{})

	_, err := g.Rewrite(context.Background(), RewriteInput{Instruction: "x", DocumentName: "Doc"})
	if err == nil {
		t.Fatal("empty generated document accepted")
	}
}

func TestRewriteFindingsWoven(t *testing.T) {
	model := &fakeModel{reply: "# Doc\n"}
	g := NewGenerator(model, noopLogger{})

	_, err := g.Rewrite(context.Background(), RewriteInput{
		Instruction:    "add current mortgage rates",
		DocumentName:   "Finances",
		CurrentContent: "# Finances\n",
		SearchFindings: "30-year fixed averages 6.1%",
	})
	if err != nil {
		t.Fatalf("Rewrite error: %v", err)
	}
	if !strings.Contains(model.lastPrompt, "30-year fixed averages 6.1%") {
		t.Error("search findings missing from prompt")
	}
}

func TestReplyIncludesHistoryAndDocuments(t *testing.T) {
	model := &fakeModel{reply: "You have two documents."}
	g := NewGenerator(model, noopLogger{})

	actx := &agent.Context{
		Project: agent.ProjectContext{Name: "Household"},
		Documents: []agent.DocumentSnapshot{
			{Name: "Budget", ContentLength: 120},
			{Name: "Recipes", ContentLength: 80},
		},
		History: []agent.ChatTurn{
			{Role: agent.RoleUser, Content: "what do I have so far?"},
		},
	}

	got, err := g.Reply(context.Background(), "list my documents", actx)
	if err != nil {
		t.Fatalf("Reply error: %v", err)
	}
	if got != "You have two documents." {
		t.Errorf("reply = %q", got)
	}
	for _, want := range []string{"Budget", "Recipes", "what do I have so far?", "list my documents"} {
		if !strings.Contains(model.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
