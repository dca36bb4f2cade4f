package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"canon-be/internal/constant"
	"canon-be/pkg/agent"
)

func TestDeriveChatTitle(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		want        string
	}{
		{
			name:        "short instruction used verbatim",
			instruction: "Add milk to the grocery list",
			want:        "Add milk to the grocery list",
		},
		{
			name:        "whitespace trimmed",
			instruction: "  update my budget  ",
			want:        "update my budget",
		},
		{
			name:        "empty falls back",
			instruction: "   ",
			want:        "New chat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveChatTitle(tt.instruction))
		})
	}
}

func TestDeriveChatTitleTruncatesLongInstructions(t *testing.T) {
	long := strings.Repeat("rework the quarterly report ", 10)
	title := deriveChatTitle(long)

	assert.True(t, strings.HasSuffix(title, "..."))
	assert.LessOrEqual(t, len(title), constant.DefaultChatTitleLength+3)
}

func TestToActResponse(t *testing.T) {
	s := &agentService{}
	chatId := uuid.New()
	docId := uuid.New()

	outcome := &agent.ActionOutcome{
		Kind:    agent.OutcomeEdited,
		Message: "I've updated \"Budget\".",
		Document: &agent.DocumentSnapshot{
			ID:            docId,
			Name:          "Budget",
			ContentLength: 512,
		},
		Warnings: []string{"possible placeholder text"},
		Trace: agent.DecisionTrace{
			Action:       "edited",
			DocumentName: "Budget",
		},
	}

	res := s.toActResponse(chatId, outcome)

	assert.Equal(t, chatId, res.ChatId)
	assert.Equal(t, "edited", res.Action)
	assert.Equal(t, "I've updated \"Budget\".", res.Message)
	assert.Equal(t, docId, res.Document.Id)
	assert.Equal(t, 512, res.Document.ContentLength)
	assert.Equal(t, []string{"possible placeholder text"}, res.Warnings)
}

func TestToActResponseWithoutDocument(t *testing.T) {
	s := &agentService{}
	outcome := &agent.ActionOutcome{
		Kind:    agent.OutcomeClarify,
		Message: "Which document did you mean?",
	}

	res := s.toActResponse(uuid.New(), outcome)
	assert.Nil(t, res.Document)
	assert.Equal(t, "clarify", res.Action)
}
