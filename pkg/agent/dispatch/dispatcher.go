package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"canon-be/internal/pkg/logger"
	"canon-be/pkg/agent"
	"canon-be/pkg/agent/decision"
	"canon-be/pkg/agent/generate"
	"canon-be/pkg/agent/validate"
)

// Dispatcher routes a corrected decision to its action. Priority order,
// first match wins: clarify, confirm, edit, create, converse.
type Dispatcher struct {
	documents agent.DocumentStore
	search    agent.WebSearch
	generator *generate.Generator
	logger    logger.ILogger
}

func NewDispatcher(documents agent.DocumentStore, search agent.WebSearch, generator *generate.Generator, log logger.ILogger) *Dispatcher {
	return &Dispatcher{
		documents: documents,
		search:    search,
		generator: generator,
		logger:    log,
	}
}

// Dispatch executes the decided action and returns a partial outcome; the
// composer fills Message and Trace afterwards. Clarify and confirm never
// mutate anything.
func (d *Dispatcher) Dispatch(ctx context.Context, actx *agent.Context, dec *decision.Decision, instruction string, projectID uuid.UUID) (*agent.ActionOutcome, error) {
	switch {
	case dec.NeedsClarification:
		return &agent.ActionOutcome{
			Kind:  agent.OutcomeClarify,
			Reply: dec.ConversationalResponse,
		}, nil

	case dec.PendingConfirmation:
		return &agent.ActionOutcome{
			Kind:  agent.OutcomeConfirm,
			Reply: dec.ConversationalResponse,
		}, nil

	case dec.ShouldEdit:
		return d.edit(ctx, dec, instruction)

	case dec.ShouldCreate:
		return d.create(ctx, dec, instruction, projectID)

	default:
		return d.converse(ctx, actx, dec, instruction)
	}
}

func (d *Dispatcher) edit(ctx context.Context, dec *decision.Decision, instruction string) (*agent.ActionOutcome, error) {
	docID, err := uuid.Parse(dec.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("edit target %q: %w", dec.DocumentID, agent.ErrNotFound)
	}

	// The assembler's snapshot may be stale or truncated; rewrite from the
	// live document to shrink the lost-update window.
	live, err := d.documents.GetLive(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("fetch live document %s: %w", docID, err)
	}

	findings, searchUsed, searchDegraded := d.runSearch(ctx, dec)

	in := generate.RewriteInput{
		Instruction:         instruction,
		DocumentName:        live.Name,
		StandingInstruction: live.StandingInstruction,
		CurrentContent:      live.Content,
		SearchFindings:      findings,
	}

	content, res, retried, err := d.generateValidated(ctx, in, func(c string) validate.Result {
		return validate.Rewrite(c, live.Content)
	})
	if err != nil {
		return nil, err
	}

	if err := d.documents.UpdateContent(ctx, docID, content); err != nil {
		return nil, fmt.Errorf("update document %s: %w", docID, err)
	}

	updated := *live
	updated.Content = content
	updated.ContentLength = len(content)

	return &agent.ActionOutcome{
		Kind:           agent.OutcomeEdited,
		Document:       &updated,
		Warnings:       surfacedWarnings(res),
		Retried:        retried,
		SearchUsed:     searchUsed,
		SearchDegraded: searchDegraded,
	}, nil
}

func (d *Dispatcher) create(ctx context.Context, dec *decision.Decision, instruction string, projectID uuid.UUID) (*agent.ActionOutcome, error) {
	findings, searchUsed, searchDegraded := d.runSearch(ctx, dec)

	in := generate.RewriteInput{
		Instruction:         instruction,
		DocumentName:        dec.DocumentName,
		StandingInstruction: dec.StandingInstruction,
		CurrentContent:      dec.DocumentContent,
		SearchFindings:      findings,
	}

	content, res, retried, err := d.generateValidated(ctx, in, func(c string) validate.Result {
		return validate.Create(dec.DocumentName, c)
	})
	if err != nil {
		return nil, err
	}

	doc, err := d.documents.Create(ctx, projectID, dec.DocumentName, dec.StandingInstruction, content)
	if errors.Is(err, agent.ErrDuplicateName) {
		// A race or a correction miss; never surfaced as a raw error.
		d.logger.Warn("action_dispatcher", "Create hit duplicate name", map[string]interface{}{
			"name": dec.DocumentName,
		})
		return &agent.ActionOutcome{
			Kind:           agent.OutcomeCreateFailed,
			FailedName:     dec.DocumentName,
			SearchUsed:     searchUsed,
			SearchDegraded: searchDegraded,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create document %q: %w", dec.DocumentName, err)
	}

	return &agent.ActionOutcome{
		Kind:           agent.OutcomeCreated,
		Document:       doc,
		Warnings:       surfacedWarnings(res),
		Retried:        retried,
		SearchUsed:     searchUsed,
		SearchDegraded: searchDegraded,
	}, nil
}

func (d *Dispatcher) converse(ctx context.Context, actx *agent.Context, dec *decision.Decision, instruction string) (*agent.ActionOutcome, error) {
	reply := dec.ConversationalResponse
	if reply == "" {
		var err error
		reply, err = d.generator.Reply(ctx, instruction, actx)
		if err != nil {
			return nil, err
		}
	}

	return &agent.ActionOutcome{
		Kind:  agent.OutcomeConverse,
		Reply: reply,
	}, nil
}

// generateValidated runs the content model once, validates, and retries
// exactly once with the issues as corrective feedback. A still-failing second
// attempt is returned anyway; its issues become warnings.
func (d *Dispatcher) generateValidated(ctx context.Context, in generate.RewriteInput, check func(string) validate.Result) (string, validate.Result, bool, error) {
	content, err := d.generator.Rewrite(ctx, in)
	if err != nil {
		return "", validate.Result{}, false, err
	}

	res := check(content)
	if res.OK {
		return content, res, false, nil
	}

	d.logger.Warn("action_dispatcher", "Generated content failed validation, retrying once", map[string]interface{}{
		"document": in.DocumentName,
		"issues":   res.Issues,
	})

	in.CorrectiveFeedback = res.Issues
	retryContent, err := d.generator.Rewrite(ctx, in)
	if err != nil {
		return "", validate.Result{}, false, err
	}

	return retryContent, check(retryContent), true, nil
}

func (d *Dispatcher) runSearch(ctx context.Context, dec *decision.Decision) (findings string, used, degraded bool) {
	if !dec.NeedsWebSearch || dec.SearchQuery == "" || d.search == nil {
		return "", false, false
	}

	findings, err := d.search.Search(ctx, dec.SearchQuery)
	if err != nil {
		d.logger.Warn("action_dispatcher", "Web search degraded", map[string]interface{}{
			"query": dec.SearchQuery,
			"error": err.Error(),
		})
		return "", false, true
	}
	return findings, true, false
}

func surfacedWarnings(res validate.Result) []string {
	warnings := append([]string{}, res.Warnings...)
	if !res.OK {
		warnings = append(warnings, res.Issues...)
	}
	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
