package decision

import (
	"context"
	"fmt"
	"strings"

	"canon-be/internal/pkg/logger"
	"canon-be/pkg/agent"
	"canon-be/pkg/utils"
)

// Engine owns the single structured call to the intent model: prompt
// assembly, schema enforcement, parsing. Intent classification itself is
// delegated to the model; repairs happen later in the Corrector.
type Engine struct {
	model  agent.ModelCapability
	logger logger.ILogger
}

func NewEngine(model agent.ModelCapability, log logger.ILogger) *Engine {
	return &Engine{
		model:  model,
		logger: log,
	}
}

// Decide issues exactly one model call and parses the reply. A malformed
// reply fails with DecisionParseError and no retry; the raw reply is logged.
func (e *Engine) Decide(ctx context.Context, actx *agent.Context, instruction string, targetDocumentID string) (*Decision, error) {
	schema, err := Schema()
	if err != nil {
		return nil, fmt.Errorf("generate decision schema: %w", err)
	}

	prompt := e.buildPrompt(actx, instruction, targetDocumentID)

	reply, err := e.model.CompleteStructured(ctx, prompt, schema)
	if err != nil {
		return nil, err
	}

	var d Decision
	if err := utils.UnmarshalFromResponse(reply, &d); err != nil {
		e.logger.Error("decision_engine", "Failed to parse intent model reply", map[string]interface{}{
			"error":     err.Error(),
			"raw_reply": reply,
		})
		return nil, &agent.DecisionParseError{Raw: reply, Err: err}
	}

	return &d, nil
}

func (e *Engine) buildPrompt(actx *agent.Context, instruction string, targetDocumentID string) string {
	var b strings.Builder

	b.WriteString("<system>\n")
	b.WriteString("You manage a user's living documents through chat. For each instruction, decide ONE of:\n")
	b.WriteString("- edit an existing document (should_edit + document_id)\n")
	b.WriteString("- create a new document (should_create + document_name)\n")
	b.WriteString("- ask for clarification (needs_clarification + the question in conversational_response)\n")
	b.WriteString("- ask for confirmation before a risky action (pending_confirmation + the prompt in conversational_response)\n")
	b.WriteString("- just reply (conversational_response)\n")
	b.WriteString("Set needs_web_search and search_query only when the task requires current external information.\n")
	b.WriteString("Always fill intent_statement (first person, future tense) and reasoning.\n")
	b.WriteString("</system>\n\n")

	b.WriteString("<project>\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", actx.Project.Name))
	if actx.Project.Description != "" {
		b.WriteString(fmt.Sprintf("Description: %s\n", actx.Project.Description))
	}
	b.WriteString("</project>\n\n")

	b.WriteString("<documents>\n")
	if len(actx.Documents) == 0 {
		b.WriteString("(none yet)\n")
	}
	for _, doc := range actx.Documents {
		b.WriteString(fmt.Sprintf("--- id=%s name=%q length=%d\n", doc.ID, doc.Name, doc.ContentLength))
		if doc.StandingInstruction != "" {
			b.WriteString(fmt.Sprintf("standing instruction: %s\n", doc.StandingInstruction))
		}
		b.WriteString(doc.Content)
		b.WriteString("\n")
	}
	b.WriteString("</documents>\n\n")

	if len(actx.History) > 0 {
		b.WriteString("<history>\n")
		for _, turn := range actx.History {
			b.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
		}
		b.WriteString("</history>\n\n")
	}

	if targetDocumentID != "" {
		b.WriteString(fmt.Sprintf("<target_document>%s</target_document>\n\n", targetDocumentID))
	}

	b.WriteString("<instruction>\n")
	b.WriteString(instruction)
	b.WriteString("\n</instruction>\n")

	return b.String()
}
