package validate

import (
	"strings"
	"testing"
)

const original = `# Trip Plan

## Flights
Booked for March.

## Hotels
Two nights in Lisbon.

## Budget
See the Budget doc.
`

func TestRewriteCleanContentPasses(t *testing.T) {
	rewritten := strings.Replace(original, "Two nights in Lisbon.", "Three nights in Porto.", 1)

	res := Rewrite(rewritten, original)
	if !res.OK {
		t.Fatalf("clean rewrite rejected: %v", res.Issues)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestRewritePlaceholderRejected(t *testing.T) {
	rewritten := original + "\n## Packing\n[TBD]\n"

	res := Rewrite(rewritten, original)
	if res.OK {
		t.Fatal("placeholder accepted")
	}
	found := false
	for _, issue := range res.Issues {
		if strings.Contains(issue, "TBD") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues %v do not name the placeholder", res.Issues)
	}
}

func TestRewriteUnclosedCodeBlockRejected(t *testing.T) {
	res := Rewrite(original+"\n```go\nfunc main() {}\n", original)
	if res.OK {
		t.Fatal("unclosed code fence accepted")
	}
}

func TestRewriteMalformedLinkRejected(t *testing.T) {
	res := Rewrite(original+"\nSee [the guide]().\n", original)
	if res.OK {
		t.Fatal("empty link target accepted")
	}
}

func TestRewriteImageWithEmptyURLRejected(t *testing.T) {
	res := Rewrite(original+"\n![map]()\n", original)
	if res.OK {
		t.Fatal("empty image target accepted")
	}
}

func TestRewriteLostSectionsRejected(t *testing.T) {
	// Drops Hotels and Budget: 2 of 4 headings, well past the threshold.
	rewritten := "# Trip Plan\n\n## Flights\nBooked for March.\n"

	res := Rewrite(rewritten, original)
	if res.OK {
		t.Fatal("major section loss accepted")
	}
}

func TestRewriteSmallHeadingDriftWarns(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Doc\n")
	for i := 0; i < 20; i++ {
		b.WriteString("## Section " + string(rune('A'+i)) + "\ntext\n")
	}
	orig := b.String()
	// One heading reworded out of 21: under the error threshold.
	rewritten := strings.Replace(orig, "## Section A", "## Section A (updated)", 1)

	res := Rewrite(rewritten, orig)
	if !res.OK {
		t.Fatalf("minor heading drift rejected: %v", res.Issues)
	}
	if len(res.Warnings) == 0 {
		t.Error("minor heading drift produced no warning")
	}
}

func TestRewriteContentCollapseRejected(t *testing.T) {
	orig := strings.Repeat("substantial content line\n", 100)
	res := Rewrite("# Done\n", orig)
	if res.OK {
		t.Fatal("90%+ content loss accepted")
	}
}

func TestRewriteEmptyOriginalValid(t *testing.T) {
	res := Rewrite("# Fresh\n\nNew content.\n", "")
	if !res.OK {
		t.Fatalf("rewrite over empty original rejected: %v", res.Issues)
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		docName  string
		content  string
		wantOK   bool
		wantHint string
	}{
		{"valid", "Recipes", "# Recipes\n\n- Pasta\n", true, ""},
		{"empty name", "  ", "# X\n", false, "name is required"},
		{"name too long", strings.Repeat("n", 201), "# X\n", false, "too long"},
		{"placeholder content", "Plan", "# Plan\nTODO: fill in\n", false, "placeholder"},
		{"empty content ok", "Notes", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Create(tt.docName, tt.content)
			if res.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v (issues: %v)", res.OK, tt.wantOK, res.Issues)
			}
			if tt.wantHint != "" {
				found := false
				for _, issue := range res.Issues {
					if strings.Contains(issue, tt.wantHint) {
						found = true
					}
				}
				if !found {
					t.Errorf("issues %v do not mention %q", res.Issues, tt.wantHint)
				}
			}
		})
	}
}
