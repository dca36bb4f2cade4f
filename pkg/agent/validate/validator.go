package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Result reports structural checks on generated markdown. Issues block
// acceptance (until the retry budget is spent); warnings never do.
type Result struct {
	OK       bool
	Issues   []string
	Warnings []string
}

// Placeholder tokens that must not survive into stored content.
var placeholders = []string{
	"url-to-image",
	"TODO",
	"FIXME",
	"[placeholder]",
	"[INSERT",
	"PLACEHOLDER",
	"XXX",
	"TBD",
}

var (
	linkPattern  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]*)\)`)
	imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
)

const (
	// More than this share of original headings missing is treated as
	// accidental content loss rather than intentional rewording.
	missingSectionErrorPct = 10.0

	// New heading count below this ratio of the original is suspicious.
	sectionCountFloor = 0.8

	// New content shorter than this ratio of the original means collapse.
	contentLossFloor = 0.1
)

var parser = goldmark.New()

// Rewrite validates regenerated content against the document it replaces.
// Structure is checked, not reasoning: markdown shape, placeholders, heading
// continuity, and gross content loss.
func Rewrite(newContent, originalContent string) Result {
	var issues, warnings []string

	issues = append(issues, markdownIssues(newContent)...)
	issues = append(issues, placeholderIssues(newContent)...)

	originalHeadings := headingSet(originalContent)
	newHeadings := headingSet(newContent)

	missing := subtract(originalHeadings, newHeadings)
	if len(missing) > 0 && len(originalHeadings) > 0 {
		lostPct := float64(len(missing)) / float64(len(originalHeadings)) * 100
		if lostPct > missingSectionErrorPct {
			issues = append(issues, fmt.Sprintf(
				"lost %d sections (%.1f%% of document): %s",
				len(missing), lostPct, strings.Join(firstN(missing, 5), ", ")))
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"missing sections from original: %s", strings.Join(firstN(missing, 3), ", ")))
		}
	}

	if len(originalHeadings) > 0 && len(newHeadings) > 0 &&
		float64(len(newHeadings)) < float64(len(originalHeadings))*sectionCountFloor {
		issues = append(issues, fmt.Sprintf(
			"document structure significantly changed: original had %d sections, new has %d",
			len(originalHeadings), len(newHeadings)))
	}

	if originalContent != "" && float64(len(newContent)) < float64(len(originalContent))*contentLossFloor {
		lost := 100 - float64(len(newContent))/float64(len(originalContent))*100
		issues = append(issues, fmt.Sprintf("content seems too short: lost %.1f%% of content", lost))
	}

	return Result{
		OK:       len(issues) == 0,
		Issues:   issues,
		Warnings: warnings,
	}
}

// Create validates content for a brand-new document.
func Create(documentName, content string) Result {
	var issues []string

	name := strings.TrimSpace(documentName)
	if name == "" {
		issues = append(issues, "document name is required and cannot be empty")
	}
	if len(name) > 200 {
		issues = append(issues, "document name is too long (max 200 characters)")
	}

	if content != "" {
		issues = append(issues, markdownIssues(content)...)
		issues = append(issues, placeholderIssues(content)...)
	}

	return Result{
		OK:     len(issues) == 0,
		Issues: issues,
	}
}

func markdownIssues(content string) []string {
	if content == "" {
		return nil
	}

	var issues []string

	if strings.Count(content, "```")%2 != 0 {
		issues = append(issues, "unclosed code block")
	}

	for _, idx := range linkPattern.FindAllStringSubmatchIndex(content, -1) {
		if idx[0] > 0 && content[idx[0]-1] == '!' {
			continue // image, checked below
		}
		target := content[idx[4]:idx[5]]
		if strings.TrimSpace(target) == "" {
			issues = append(issues, fmt.Sprintf("malformed link: %s", content[idx[0]:idx[1]]))
		}
	}

	for _, m := range imagePattern.FindAllStringSubmatch(content, -1) {
		if strings.TrimSpace(m[2]) == "" {
			issues = append(issues, fmt.Sprintf("malformed image: %s", m[0]))
		}
	}

	return issues
}

func placeholderIssues(content string) []string {
	var issues []string
	for _, p := range placeholders {
		if strings.Contains(content, p) {
			issues = append(issues, fmt.Sprintf("found placeholder in output: %s", p))
		}
	}
	return issues
}

// headingSet parses the markdown and returns the set of heading texts.
func headingSet(content string) map[string]struct{} {
	set := make(map[string]struct{})
	if content == "" {
		return set
	}

	source := []byte(content)
	doc := parser.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Heading); ok {
			if t := strings.TrimSpace(nodeText(n, source)); t != "" {
				set[t] = struct{}{}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return set
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func subtract(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
