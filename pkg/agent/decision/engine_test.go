package decision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"canon-be/internal/pkg/logger"
	"canon-be/pkg/agent"
)

type fakeModel struct {
	reply string
	err   error
	calls int

	lastPrompt string
	lastSchema []byte
}

func (f *fakeModel) CompleteStructured(_ context.Context, prompt string, schema []byte) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastSchema = schema
	return f.reply, f.err
}

func (f *fakeModel) CompleteText(_ context.Context, _ string) (string, error) {
	return "", errors.New("not used")
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

func testContext() *agent.Context {
	return &agent.Context{
		Project: agent.ProjectContext{
			ID:   uuid.New(),
			Name: "Household",
		},
		Documents: []agent.DocumentSnapshot{
			{ID: uuid.New(), Name: "Budget", Content: "# Budget", ContentLength: 8},
		},
		History: []agent.ChatTurn{
			{Role: agent.RoleUser, Content: "hi"},
			{Role: agent.RoleAssistant, Content: "hello"},
		},
	}
}

func TestEngineDecideParsesReply(t *testing.T) {
	model := &fakeModel{
		reply: "```json\n{\"should_create\": true, \"document_name\": \"Recipes\", \"intent_statement\": \"I'll create a Recipes document\", \"reasoning\": \"no such document exists\"}\n```",
	}
	engine := NewEngine(model, noopLogger{})

	d, err := engine.Decide(context.Background(), testContext(), "Add my favorite recipes", "")
	if err != nil {
		t.Fatalf("Decide error: %v", err)
	}

	if !d.ShouldCreate || d.DocumentName != "Recipes" {
		t.Errorf("unexpected decision: %+v", d)
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want exactly 1", model.calls)
	}
	if len(model.lastSchema) == 0 {
		t.Error("no schema passed to model")
	}
	if !strings.Contains(model.lastPrompt, "Add my favorite recipes") {
		t.Error("instruction missing from prompt")
	}
	if !strings.Contains(model.lastPrompt, "Budget") {
		t.Error("document snapshot missing from prompt")
	}
}

func TestEngineDecideMalformedReplyNoRetry(t *testing.T) {
	model := &fakeModel{reply: "I cannot answer in JSON, sorry."}
	engine := NewEngine(model, noopLogger{})

	_, err := engine.Decide(context.Background(), testContext(), "do something", "")
	if err == nil {
		t.Fatal("expected DecisionParseError")
	}

	var parseErr *agent.DecisionParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T, want *agent.DecisionParseError", err)
	}
	if parseErr.Raw != model.reply {
		t.Errorf("raw reply not carried: %q", parseErr.Raw)
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want exactly 1 (no retry)", model.calls)
	}
}

func TestEngineDecideModelUnavailable(t *testing.T) {
	model := &fakeModel{err: agent.ErrModelUnavailable}
	engine := NewEngine(model, noopLogger{})

	_, err := engine.Decide(context.Background(), testContext(), "do something", "")
	if !errors.Is(err, agent.ErrModelUnavailable) {
		t.Fatalf("error = %v, want ErrModelUnavailable", err)
	}
}
