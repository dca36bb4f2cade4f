package generate

import (
	"context"
	"fmt"
	"strings"

	"canon-be/internal/pkg/logger"
	"canon-be/pkg/agent"
	"canon-be/pkg/utils"
)

// Generator issues the content model call: full-document rewrites for
// edit/create, free text for conversational replies. Rewrites always receive
// the full current content and always return the full next content, never
// a diff.
type Generator struct {
	model  agent.ModelCapability
	logger logger.ILogger
}

func NewGenerator(model agent.ModelCapability, log logger.ILogger) *Generator {
	return &Generator{
		model:  model,
		logger: log,
	}
}

// RewriteInput carries everything the rewrite prompt needs. SearchFindings
// and CorrectiveFeedback are optional; CurrentContent is empty for creates.
type RewriteInput struct {
	Instruction         string
	DocumentName        string
	StandingInstruction string
	CurrentContent      string
	SearchFindings      string
	CorrectiveFeedback  []string
}

// Rewrite produces the complete replacement markdown for a document.
func (g *Generator) Rewrite(ctx context.Context, in RewriteInput) (string, error) {
	prompt := g.buildRewritePrompt(in)

	reply, err := g.model.CompleteText(ctx, prompt)
	if err != nil {
		return "", err
	}

	content := utils.StripCodeFence(reply)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("content model returned empty document for %q", in.DocumentName)
	}

	g.logger.Debug("content_generator", "Generated document content", map[string]interface{}{
		"document":       in.DocumentName,
		"content_length": len(content),
		"retry":          len(in.CorrectiveFeedback) > 0,
	})

	return content, nil
}

// Reply produces a conversational answer grounded in the assembled context.
func (g *Generator) Reply(ctx context.Context, instruction string, actx *agent.Context) (string, error) {
	var b strings.Builder

	b.WriteString("<system>\n")
	b.WriteString("You are a helpful assistant managing the user's project documents.\n")
	b.WriteString("Answer conversationally. Do not output a document.\n")
	b.WriteString("</system>\n\n")

	b.WriteString(fmt.Sprintf("<project>%s</project>\n\n", actx.Project.Name))

	if len(actx.Documents) > 0 {
		b.WriteString("<documents>\n")
		for _, doc := range actx.Documents {
			b.WriteString(fmt.Sprintf("- %s (%d chars)\n", doc.Name, doc.ContentLength))
		}
		b.WriteString("</documents>\n\n")
	}

	if len(actx.History) > 0 {
		b.WriteString("<history>\n")
		for _, turn := range actx.History {
			b.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Content))
		}
		b.WriteString("</history>\n\n")
	}

	b.WriteString(fmt.Sprintf("<message>\n%s\n</message>\n", instruction))

	return g.model.CompleteText(ctx, b.String())
}

func (g *Generator) buildRewritePrompt(in RewriteInput) string {
	var b strings.Builder

	b.WriteString("<system>\n")
	b.WriteString("You rewrite living documents. Output the COMPLETE next version of the document\n")
	b.WriteString("as markdown, and nothing else. Never output a diff, a fragment, or commentary.\n")
	b.WriteString("Preserve every section the instruction does not ask you to change.\n")
	b.WriteString("Never leave placeholder tokens like TODO or TBD in the output.\n")
	b.WriteString("</system>\n\n")

	b.WriteString(fmt.Sprintf("<document name=%q>\n", in.DocumentName))
	if in.CurrentContent == "" {
		b.WriteString("(new document, no content yet)\n")
	} else {
		b.WriteString(in.CurrentContent)
		b.WriteString("\n")
	}
	b.WriteString("</document>\n\n")

	if in.StandingInstruction != "" {
		b.WriteString("<standing_instruction>\n")
		b.WriteString(in.StandingInstruction)
		b.WriteString("\n</standing_instruction>\n\n")
	}

	if in.SearchFindings != "" {
		b.WriteString("<research_findings>\n")
		b.WriteString(in.SearchFindings)
		b.WriteString("\nIncorporate the relevant findings above where the instruction calls for them.\n")
		b.WriteString("</research_findings>\n\n")
	}

	b.WriteString("<instruction>\n")
	b.WriteString(in.Instruction)
	b.WriteString("\n</instruction>\n")

	if len(in.CorrectiveFeedback) > 0 {
		b.WriteString("\n<corrections>\n")
		b.WriteString("Your previous attempt had these problems. Fix all of them:\n")
		for _, issue := range in.CorrectiveFeedback {
			b.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		b.WriteString("</corrections>\n")
	}

	return b.String()
}
