package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"canon-be/internal/pkg/logger"
	"canon-be/pkg/agent"
	"canon-be/pkg/agent/decision"
	"canon-be/pkg/agent/generate"
)

type fakeModel struct {
	replies []string
	calls   int
	prompts []string
}

func (f *fakeModel) CompleteStructured(_ context.Context, _ string, _ []byte) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeModel) CompleteText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.calls >= len(f.replies) {
		return "", errors.New("no scripted reply left")
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

type fakeDocs struct {
	live map[uuid.UUID]*agent.DocumentSnapshot

	updates   map[uuid.UUID]string
	created   []string
	duplicate bool
}

func newFakeDocs(docs ...*agent.DocumentSnapshot) *fakeDocs {
	f := &fakeDocs{
		live:    make(map[uuid.UUID]*agent.DocumentSnapshot),
		updates: make(map[uuid.UUID]string),
	}
	for _, d := range docs {
		f.live[d.ID] = d
	}
	return f
}

func (f *fakeDocs) GetSnapshot(ctx context.Context, id uuid.UUID) (*agent.DocumentSnapshot, error) {
	return f.GetLive(ctx, id)
}

func (f *fakeDocs) GetLive(_ context.Context, id uuid.UUID) (*agent.DocumentSnapshot, error) {
	if d, ok := f.live[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, agent.ErrNotFound
}

func (f *fakeDocs) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	f.updates[id] = content
	return nil
}

func (f *fakeDocs) Create(_ context.Context, projectID uuid.UUID, name, standingInstruction, content string) (*agent.DocumentSnapshot, error) {
	if f.duplicate {
		return nil, agent.ErrDuplicateName
	}
	f.created = append(f.created, name)
	return &agent.DocumentSnapshot{
		ID:                  uuid.New(),
		Name:                name,
		StandingInstruction: standingInstruction,
		Content:             content,
		ContentLength:       len(content),
	}, nil
}

func (f *fakeDocs) ListByProject(_ context.Context, _ uuid.UUID) ([]agent.DocumentSnapshot, error) {
	var out []agent.DocumentSnapshot
	for _, d := range f.live {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDocs) mutations() int {
	return len(f.updates) + len(f.created)
}

type fakeSearch struct {
	findings string
	err      error
	calls    int
}

func (f *fakeSearch) Search(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.findings, f.err
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

func newDispatcher(model *fakeModel, docs *fakeDocs, search agent.WebSearch) *Dispatcher {
	gen := generate.NewGenerator(model, noopLogger{})
	return NewDispatcher(docs, search, gen, noopLogger{})
}

func emptyContext() *agent.Context {
	return &agent.Context{Project: agent.ProjectContext{Name: "P"}}
}

func TestDispatchClarifyNeverMutates(t *testing.T) {
	docs := newFakeDocs()
	d := newDispatcher(&fakeModel{}, docs, nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		NeedsClarification:     true,
		ConversationalResponse: "Which document did you mean?",
	}, "update it", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if out.Kind != agent.OutcomeClarify {
		t.Errorf("kind = %s, want clarify", out.Kind)
	}
	if out.Reply != "Which document did you mean?" {
		t.Errorf("reply = %q", out.Reply)
	}
	if docs.mutations() != 0 {
		t.Error("clarify performed a write")
	}
}

func TestDispatchConfirmNeverMutates(t *testing.T) {
	docs := newFakeDocs()
	d := newDispatcher(&fakeModel{}, docs, nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		PendingConfirmation:    true,
		ConversationalResponse: "This will rewrite most of the document. Proceed?",
	}, "redo everything", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if out.Kind != agent.OutcomeConfirm {
		t.Errorf("kind = %s, want confirm", out.Kind)
	}
	if docs.mutations() != 0 {
		t.Error("confirm performed a write")
	}
}

func TestDispatchClarifyWinsOverEdit(t *testing.T) {
	docID := uuid.New()
	docs := newFakeDocs(&agent.DocumentSnapshot{ID: docID, Name: "Budget", Content: "# Budget\n"})
	d := newDispatcher(&fakeModel{}, docs, nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		NeedsClarification:     true,
		ShouldEdit:             true,
		DocumentID:             docID.String(),
		ConversationalResponse: "Remove which line?",
	}, "remove the line", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if out.Kind != agent.OutcomeClarify {
		t.Errorf("kind = %s, want clarify", out.Kind)
	}
	if docs.mutations() != 0 {
		t.Error("clarify+edit performed a write")
	}
}

func TestDispatchEditUsesLiveContent(t *testing.T) {
	docID := uuid.New()
	liveContent := "# Budget\n\n## Travel\n- hotel: $400\n- flights: $900\n"
	docs := newFakeDocs(&agent.DocumentSnapshot{
		ID:                  docID,
		Name:                "Budget",
		StandingInstruction: "amounts in USD",
		Content:             liveContent,
	})

	rewritten := "# Budget\n\n## Travel\n- flights: $900\n"
	model := &fakeModel{replies: []string{rewritten}}
	d := newDispatcher(model, docs, nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		ShouldEdit: true,
		DocumentID: docID.String(),
	}, "remove the hotel line", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if out.Kind != agent.OutcomeEdited {
		t.Fatalf("kind = %s, want edited", out.Kind)
	}
	if got := docs.updates[docID]; got != rewritten {
		t.Errorf("stored content = %q, want full rewrite", got)
	}
	if out.Document == nil || out.Document.Content != rewritten {
		t.Error("outcome document does not carry the new content")
	}
	if !strings.Contains(model.prompts[0], liveContent) {
		t.Error("rewrite prompt missing full live content")
	}
	if !strings.Contains(model.prompts[0], "amounts in USD") {
		t.Error("rewrite prompt missing standing instruction")
	}
	if out.Retried {
		t.Error("clean rewrite marked as retried")
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}
}

func TestDispatchEditUnknownTargetFails(t *testing.T) {
	docs := newFakeDocs()
	d := newDispatcher(&fakeModel{}, docs, nil)

	_, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		ShouldEdit: true,
		DocumentID: uuid.NewString(),
	}, "edit it", uuid.New())
	if !errors.Is(err, agent.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if docs.mutations() != 0 {
		t.Error("failed edit performed a write")
	}
}

func TestDispatchCreatePersists(t *testing.T) {
	docs := newFakeDocs()
	model := &fakeModel{replies: []string{"# Recipes\n\n- Pasta\n"}}
	d := newDispatcher(model, docs, nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		ShouldCreate: true,
		DocumentName: "Recipes",
	}, "add my favorite recipes", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if out.Kind != agent.OutcomeCreated {
		t.Fatalf("kind = %s, want created", out.Kind)
	}
	if len(docs.created) != 1 || docs.created[0] != "Recipes" {
		t.Errorf("created = %v", docs.created)
	}
	if out.Document == nil || out.Document.Name != "Recipes" {
		t.Error("outcome missing created document")
	}
}

func TestDispatchCreateDuplicateBecomesCreateFailed(t *testing.T) {
	docs := newFakeDocs()
	docs.duplicate = true
	model := &fakeModel{replies: []string{"# Budget\n"}}
	d := newDispatcher(model, docs, nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		ShouldCreate: true,
		DocumentName: "Budget",
	}, "make a budget", uuid.New())
	if err != nil {
		t.Fatalf("duplicate name surfaced as raw error: %v", err)
	}

	if out.Kind != agent.OutcomeCreateFailed {
		t.Errorf("kind = %s, want create_failed", out.Kind)
	}
	if out.FailedName != "Budget" {
		t.Errorf("failed name = %q", out.FailedName)
	}
}

func TestDispatchValidationRetryOnce(t *testing.T) {
	docID := uuid.New()
	docs := newFakeDocs(&agent.DocumentSnapshot{ID: docID, Name: "Plan", Content: "# Plan\nbody\n"})

	t.Run("clean retry clears warnings", func(t *testing.T) {
		model := &fakeModel{replies: []string{
			"# Plan\nbody with [TBD]\n",
			"# Plan\nbody complete\n",
		}}
		d := newDispatcher(model, docs, nil)

		out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
			ShouldEdit: true,
			DocumentID: docID.String(),
		}, "finish the plan", uuid.New())
		if err != nil {
			t.Fatalf("Dispatch error: %v", err)
		}

		if model.calls != 2 {
			t.Errorf("content model called %d times, want 2", model.calls)
		}
		if !strings.Contains(model.prompts[1], "TBD") {
			t.Error("retry prompt missing corrective feedback")
		}
		if !out.Retried {
			t.Error("retry not recorded")
		}
		if len(out.Warnings) != 0 {
			t.Errorf("clean retry left warnings: %v", out.Warnings)
		}
		if docs.updates[docID] != "# Plan\nbody complete\n" {
			t.Error("retry output not persisted")
		}
	})

	t.Run("still failing persists with warnings", func(t *testing.T) {
		model := &fakeModel{replies: []string{
			"# Plan\nbody with [TBD]\n",
			"# Plan\nstill [TBD]\n",
		}}
		d := newDispatcher(model, docs, nil)

		out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
			ShouldEdit: true,
			DocumentID: docID.String(),
		}, "finish the plan", uuid.New())
		if err != nil {
			t.Fatalf("persistent validation failure became fatal: %v", err)
		}

		if model.calls != 2 {
			t.Errorf("content model called %d times, want exactly 2 (one retry)", model.calls)
		}
		if out.Kind != agent.OutcomeEdited {
			t.Errorf("kind = %s, want edited", out.Kind)
		}
		if len(out.Warnings) == 0 {
			t.Fatal("no warnings surfaced")
		}
		found := false
		for _, w := range out.Warnings {
			if strings.Contains(w, "TBD") {
				found = true
			}
		}
		if !found {
			t.Errorf("warnings %v do not name the placeholder", out.Warnings)
		}
		if docs.updates[docID] != "# Plan\nstill [TBD]\n" {
			t.Error("latest output not persisted despite warnings")
		}
	})
}

func TestDispatchSearchWovenIntoRewrite(t *testing.T) {
	docID := uuid.New()
	docs := newFakeDocs(&agent.DocumentSnapshot{ID: docID, Name: "Rates", Content: "# Rates\n"})
	search := &fakeSearch{findings: "30-year fixed averages 6.1%"}
	model := &fakeModel{replies: []string{"# Rates\n\n6.1%\n"}}
	d := newDispatcher(model, docs, search)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		ShouldEdit:     true,
		DocumentID:     docID.String(),
		NeedsWebSearch: true,
		SearchQuery:    "current mortgage rates",
	}, "add current rates", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if search.calls != 1 {
		t.Errorf("search called %d times, want 1", search.calls)
	}
	if !out.SearchUsed {
		t.Error("search not recorded in outcome")
	}
	if !strings.Contains(model.prompts[0], "6.1%") {
		t.Error("findings missing from rewrite prompt")
	}
}

func TestDispatchSearchUnavailableDegrades(t *testing.T) {
	docID := uuid.New()
	docs := newFakeDocs(&agent.DocumentSnapshot{ID: docID, Name: "Rates", Content: "# Rates\n"})
	search := &fakeSearch{err: agent.ErrSearchUnavailable}
	model := &fakeModel{replies: []string{"# Rates\n\nupdated\n"}}
	d := newDispatcher(model, docs, search)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		ShouldEdit:     true,
		DocumentID:     docID.String(),
		NeedsWebSearch: true,
		SearchQuery:    "current mortgage rates",
	}, "add current rates", uuid.New())
	if err != nil {
		t.Fatalf("degraded search became fatal: %v", err)
	}

	if out.Kind != agent.OutcomeEdited {
		t.Errorf("kind = %s, want edited", out.Kind)
	}
	if out.SearchUsed {
		t.Error("failed search marked as used")
	}
	if !out.SearchDegraded {
		t.Error("degradation not recorded")
	}
}

func TestDispatchConverseVerbatim(t *testing.T) {
	model := &fakeModel{}
	d := newDispatcher(model, newFakeDocs(), nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{
		ConversationalResponse: "You have three documents.",
	}, "what do I have?", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if out.Kind != agent.OutcomeConverse {
		t.Errorf("kind = %s, want converse", out.Kind)
	}
	if out.Reply != "You have three documents." {
		t.Errorf("reply = %q", out.Reply)
	}
	if model.calls != 0 {
		t.Error("model called despite verbatim response")
	}
}

func TestDispatchConverseFallsBackToGenerator(t *testing.T) {
	model := &fakeModel{replies: []string{"Happy to help."}}
	d := newDispatcher(model, newFakeDocs(), nil)

	out, err := d.Dispatch(context.Background(), emptyContext(), &decision.Decision{}, "thanks!", uuid.New())
	if err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}

	if out.Reply != "Happy to help." {
		t.Errorf("reply = %q", out.Reply)
	}
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
}
