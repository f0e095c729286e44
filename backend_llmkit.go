package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// LLMKitBackend prompts Anthropic through llmkit. The prompt call has no tool loop, so every
// tool is invoked once up front and its output is appended to the user prompt.
type LLMKitBackend struct {
	apiKey   string
	settings AgentSettings
}

// NewLLMKitBackend creates an llmkit-backed backend
func NewLLMKitBackend(apiKey string, settings AgentSettings) *LLMKitBackend {
	return &LLMKitBackend{apiKey: apiKey, settings: settings}
}

// Generate runs the tools, sends one prompt and returns the response blocks as the last turn
func (b *LLMKitBackend) Generate(ctx context.Context, system string, conversation []Message, tools []Tool) (Reply, error) {
	reply := Reply{Turns: conversationTurns(conversation)}

	var prompt strings.Builder
	for i, m := range conversation {
		if i > 0 {
			prompt.WriteString("\n\n")
		}
		prompt.WriteString(m.Content)
	}

	for _, t := range tools {
		output, err := t.Invoke(ctx, "")
		if err != nil {
			return reply, fmt.Errorf("tool %s: %w", t.Name(), err)
		}
		reply.Turns = append(reply.Turns, Turn{Role: "tool", Content: TextContent(output)})
		fmt.Fprintf(&prompt, "\n\n<tool_result name=%q>\n%s\n</tool_result>", t.Name(), output)
	}

	settings := types.RequestSettings{
		Model:       b.settings.Model,
		MaxTokens:   b.settings.MaxTokens,
		Temperature: b.settings.Temperature,
	}
	log.Printf("→ Prompting %s via llmkit", b.settings.Model)
	response, err := anthropic.PromptWithSettings(system, prompt.String(), "", b.apiKey, settings)
	if err != nil {
		return reply, fmt.Errorf("llmkit prompt failed: %w", err)
	}

	parts := make([]Part, 0, len(response.Content))
	for _, block := range response.Content {
		parts = append(parts, Part{Kind: PartText, Text: block.Text})
	}
	reply.Turns = append(reply.Turns, Turn{Role: "assistant", Content: PartsContent(parts...)})
	return reply, nil
}
