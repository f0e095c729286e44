package main

import (
	"context"
	"fmt"
	"os"
)

const defaultMaxToolRounds = 4

// Backend runs one generation round: given a system instruction, the conversation so far and
// the tools it may call, it returns the resulting turn sequence.
type Backend interface {
	Generate(ctx context.Context, system string, conversation []Message, tools []Tool) (Reply, error)
}

// NewBackend builds the backend named in settings. apiKey wins over the provider's
// environment variable when set.
func NewBackend(settings *Settings, apiKey string) (Backend, error) {
	switch settings.Backend {
	case "", "anthropic":
		key, err := requireAPIKey(apiKey, "ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewAnthropicBackend(key, settings.Agents.Anthropic), nil
	case "llmkit":
		key, err := requireAPIKey(apiKey, "ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewLLMKitBackend(key, settings.Agents.Anthropic), nil
	case "gemini":
		key, err := requireAPIKey(apiKey, "GEMINI_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewGeminiBackend(key, settings.Agents.Gemini), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", settings.Backend)
	}
}

func requireAPIKey(apiKey, envVar string) (string, error) {
	if apiKey == "" {
		apiKey = os.Getenv(envVar)
	}
	if apiKey == "" {
		return "", fmt.Errorf("API key required: use --api-key flag or %s environment variable", envVar)
	}
	return apiKey, nil
}

func maxToolRounds(settings AgentSettings) int {
	if settings.MaxToolRounds <= 0 {
		return defaultMaxToolRounds
	}
	return settings.MaxToolRounds
}

// conversationTurns mirrors the input conversation at the head of a reply
func conversationTurns(conversation []Message) []Turn {
	turns := make([]Turn, 0, len(conversation))
	for _, m := range conversation {
		turns = append(turns, Turn{Role: m.Role, Content: TextContent(m.Content)})
	}
	return turns
}
