package decision

import (
	"regexp"
	"strings"
	"unicode"
)

// NameExtractor attempts to recover a document name the model omitted.
// Returns "" when it finds nothing. Extractors are pure and tried in order;
// when all fail the corrector asks for clarification instead of inventing
// a generic name.
type NameExtractor func(intentStatement, instruction string) string

// DefaultNameExtractors is the ordered extraction chain used by Correct.
var DefaultNameExtractors = []NameExtractor{
	ExtractFromIntentStatement,
	ExtractFromInstruction,
}

var (
	intentCalledPattern = regexp.MustCompile(`(?i)\b(?:called|named|titled)\s+["']?([^"'.,;:!?\n]+?)["']?\s*(?:[.,;:!?]|$)`)
	intentForPattern    = regexp.MustCompile(`(?i)\b(?:document|doc|list|file|page)\s+for\s+["']?([^"'.,;:!?\n]+?)["']?\s*(?:[.,;:!?]|$)`)

	instructionVerbPattern = regexp.MustCompile(`(?i)\b(?:create|add|make|start|write|keep|track)\s+(.+)$`)

	leadingFiller = regexp.MustCompile(`(?i)^(?:a|an|the|my|our|some|new|document|doc|list|file|page|note|of|for|about|on|called|named|titled)\s+`)
)

// ExtractFromIntentStatement pulls a name out of the model's own
// intent_statement ("I'll create a document called Trip Budget").
func ExtractFromIntentStatement(intentStatement, _ string) string {
	for _, p := range []*regexp.Regexp{intentCalledPattern, intentForPattern} {
		if m := p.FindStringSubmatch(intentStatement); m != nil {
			return cleanName(m[1])
		}
	}
	return ""
}

// ExtractFromInstruction takes the noun phrase following an action verb in
// the raw instruction ("add my favorite recipes" -> "Favorite Recipes").
func ExtractFromInstruction(_, instruction string) string {
	m := instructionVerbPattern.FindStringSubmatch(instruction)
	if m == nil {
		return ""
	}

	phrase := m[1]
	if i := strings.IndexAny(phrase, ".,;:!?\n"); i >= 0 {
		phrase = phrase[:i]
	}

	for {
		stripped := leadingFiller.ReplaceAllString(strings.TrimSpace(phrase), "")
		if stripped == phrase {
			break
		}
		phrase = stripped
	}

	return cleanName(phrase)
}

func cleanName(raw string) string {
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)

	words := strings.Fields(raw)
	if len(words) == 0 || len(words) > 6 {
		return ""
	}

	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
