package context

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"canon-be/pkg/agent"
)

const (
	// Documents above SnapshotThreshold are excerpted to head+tail.
	SnapshotThreshold = 2000
	snapshotHead      = 1500
	snapshotTail      = 500

	// HistoryLimit bounds the chat window fed to the decision prompt.
	HistoryLimit = 10
)

// Assembler builds the decision input for one action: project metadata,
// document snapshots, and a bounded chat-history window.
type Assembler struct {
	projects  agent.ProjectStore
	documents agent.DocumentStore
	chats     agent.ChatStore
}

func NewAssembler(projects agent.ProjectStore, documents agent.DocumentStore, chats agent.ChatStore) *Assembler {
	return &Assembler{
		projects:  projects,
		documents: documents,
		chats:     chats,
	}
}

// Assemble fails with ErrNotFound when the project is missing or unowned.
// An empty document list is valid. chatID may be uuid.Nil for a fresh chat.
func (a *Assembler) Assemble(ctx context.Context, userID, projectID, chatID uuid.UUID) (*agent.Context, error) {
	project, err := a.projects.Get(ctx, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project %s: %w", projectID, err)
	}

	docs, err := a.documents.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list documents for project %s: %w", projectID, err)
	}
	for i := range docs {
		docs[i] = Truncate(docs[i])
	}

	var history []agent.ChatTurn
	if chatID != uuid.Nil {
		history, err = a.chats.GetRecentTurns(ctx, chatID, HistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("load chat history %s: %w", chatID, err)
		}
	}

	return &agent.Context{
		Project:   *project,
		Documents: docs,
		History:   history,
	}, nil
}

// Truncate excerpts oversized content to head+tail with an explicit omission
// marker, bounding model input while preserving lead and trail structure.
func Truncate(doc agent.DocumentSnapshot) agent.DocumentSnapshot {
	doc.ContentLength = len(doc.Content)
	if doc.ContentLength <= SnapshotThreshold {
		return doc
	}

	// Cut points land on rune boundaries so multi-byte characters never get
	// split into invalid UTF-8.
	head := snapshotHead
	for head > 0 && !utf8.RuneStart(doc.Content[head]) {
		head--
	}
	tail := doc.ContentLength - snapshotTail
	for tail < doc.ContentLength && !utf8.RuneStart(doc.Content[tail]) {
		tail++
	}

	omitted := tail - head
	doc.Content = fmt.Sprintf("%s\n[... %d characters omitted ...]\n%s",
		doc.Content[:head], omitted, doc.Content[tail:])
	doc.Truncated = true
	return doc
}
