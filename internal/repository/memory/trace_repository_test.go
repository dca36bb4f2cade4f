package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"canon-be/pkg/agent"
)

func TestTraceRepository(t *testing.T) {
	repo := NewTraceRepository()

	trace := agent.DecisionTrace{
		IntentStatement: "I'll update 'Budget'.",
		Action:          "edited",
		DocumentName:    "Budget",
	}

	_, found := repo.Get("chat-1")
	assert.False(t, found)

	repo.Save("chat-1", trace)
	got, found := repo.Get("chat-1")
	assert.True(t, found)
	assert.Equal(t, trace, got)

	// Overwrite keeps only the latest trace per chat.
	trace.Action = "created"
	repo.Save("chat-1", trace)
	got, _ = repo.Get("chat-1")
	assert.Equal(t, "created", got.Action)

	repo.Delete("chat-1")
	_, found = repo.Get("chat-1")
	assert.False(t, found)
}
