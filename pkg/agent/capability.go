package agent

import (
	"context"
	"fmt"

	"canon-be/pkg/llm"
)

// modelCapability adapts an llm.LLMProvider to the ModelCapability port.
type modelCapability struct {
	provider llm.LLMProvider
}

func NewModelCapability(provider llm.LLMProvider) ModelCapability {
	return &modelCapability{provider: provider}
}

func (m *modelCapability) CompleteStructured(ctx context.Context, prompt string, schema []byte) (string, error) {
	full := fmt.Sprintf("%s\n\nRespond with a single JSON object matching this schema, and nothing else:\n%s", prompt, schema)

	reply, err := m.provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: full},
	}, llm.WithJSONMode(), llm.WithTemperature(0.1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return reply, nil
}

func (m *modelCapability) CompleteText(ctx context.Context, prompt string) (string, error) {
	reply, err := m.provider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return reply, nil
}
