package compose

import (
	"fmt"
	"strings"
	"time"

	"canon-be/pkg/agent"
	"canon-be/pkg/agent/decision"
	"canon-be/pkg/events"
)

// EventAgentActionCompleted is emitted once per finished action.
const EventAgentActionCompleted = "AGENT_ACTION_COMPLETED"

// Composer turns a dispatched outcome into the single user-facing message,
// the audit trace, and an emitted event. Delivery of the event belongs to
// the caller.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose fills out.Message and out.Trace and returns the event describing
// the completed action.
func (c *Composer) Compose(dec *decision.Decision, out *agent.ActionOutcome, corrections []string) events.Event {
	out.Message = c.message(dec, out)
	out.Trace = c.trace(dec, out, corrections)

	return events.BaseEvent{
		Type: EventAgentActionCompleted,
		Data: map[string]interface{}{
			"action":          string(out.Kind),
			"document_id":     out.Trace.DocumentID,
			"document_name":   out.Trace.DocumentName,
			"search_used":     out.SearchUsed,
			"search_degraded": out.SearchDegraded,
			"retried":         out.Retried,
			"warnings":        len(out.Warnings),
		},
		OccurredAt: time.Now(),
	}
}

func (c *Composer) message(dec *decision.Decision, out *agent.ActionOutcome) string {
	switch out.Kind {
	case agent.OutcomeClarify, agent.OutcomeConfirm, agent.OutcomeConverse:
		if out.Reply != "" {
			return out.Reply
		}
		return "Could you tell me a bit more about what you'd like to do?"

	case agent.OutcomeCreateFailed:
		return fmt.Sprintf(
			"A document named %q already exists in this project. Would you like me to update the existing document instead, or create a new one under a different name?",
			out.FailedName)
	}

	var b strings.Builder

	b.WriteString(c.completedLine(dec, out))

	if out.Kind == agent.OutcomeEdited && dec.ChangeSummary != "" {
		b.WriteString("\n\n")
		b.WriteString(dec.ChangeSummary)
	}
	if out.Kind == agent.OutcomeCreated && dec.ContentSummary != "" {
		b.WriteString("\n\n")
		b.WriteString(dec.ContentSummary)
	}

	if out.SearchUsed {
		b.WriteString("\n\nI looked up current information while working on this.")
	} else if out.SearchDegraded {
		b.WriteString("\n\nNote: web search wasn't available, so I worked from the existing content only.")
	}

	if len(out.Warnings) > 0 {
		b.WriteString("\n\nHeads up, the result may need review:")
		for _, w := range out.Warnings {
			b.WriteString(fmt.Sprintf("\n- %s", w))
		}
	}

	return b.String()
}

// completedLine reframes the model's future-tense intent statement into past
// tense, falling back to a plain summary of what happened.
func (c *Composer) completedLine(dec *decision.Decision, out *agent.ActionOutcome) string {
	if reframed := ReframePast(dec.IntentStatement); reframed != "" {
		return reframed
	}

	name := ""
	if out.Document != nil {
		name = out.Document.Name
	}
	switch out.Kind {
	case agent.OutcomeCreated:
		return fmt.Sprintf("I've created %q.", name)
	default:
		return fmt.Sprintf("I've updated %q.", name)
	}
}

var pastTense = map[string]string{
	"create":  "created",
	"add":     "added",
	"update":  "updated",
	"edit":    "edited",
	"remove":  "removed",
	"delete":  "deleted",
	"rewrite": "rewritten",
	"revise":  "revised",
	"write":   "written",
	"make":    "made",
	"change":  "changed",
	"fix":     "fixed",
	"expand":  "expanded",
	"draft":   "drafted",
	"set":     "set",
}

// ReframePast converts "I'll create ..." / "I will update ..." into
// "I've created ..." / "I've updated ...". Returns "" when the statement
// does not match the expected shape.
func ReframePast(intentStatement string) string {
	s := strings.TrimSpace(intentStatement)

	var rest string
	switch {
	case strings.HasPrefix(s, "I'll "):
		rest = strings.TrimPrefix(s, "I'll ")
	case strings.HasPrefix(s, "I will "):
		rest = strings.TrimPrefix(s, "I will ")
	default:
		return ""
	}

	verb, tail, _ := strings.Cut(rest, " ")
	past, ok := pastTense[strings.ToLower(verb)]
	if !ok {
		return ""
	}
	if tail == "" {
		return "I've " + past
	}
	return "I've " + past + " " + tail
}

func (c *Composer) trace(dec *decision.Decision, out *agent.ActionOutcome, corrections []string) agent.DecisionTrace {
	t := agent.DecisionTrace{
		IntentStatement: dec.IntentStatement,
		Reasoning:       dec.Reasoning,
		Action:          string(out.Kind),
		DocumentName:    dec.DocumentName,
		SearchUsed:      out.SearchUsed,
		SearchDegraded:  out.SearchDegraded,
		Retried:         out.Retried,
		Warnings:        out.Warnings,
		CorrectionsMade: corrections,
	}
	if out.Document != nil {
		t.DocumentID = out.Document.ID.String()
		t.DocumentName = out.Document.Name
	}
	if out.Kind == agent.OutcomeCreateFailed {
		t.DocumentName = out.FailedName
	}
	return t
}
