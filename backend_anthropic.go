package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion        = "2023-06-01"
)

// Input schema advertised for every tool; tools here take no meaningful input.
var ignoredInputSchema = json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"Ignored; any value is accepted."}}}`)

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

// anthropicContentBlock is discriminated by Type: "text", "tool_use" or "tool_result"
type anthropicContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

// AnthropicBackend talks to the Anthropic Messages API and runs the tool-use loop itself
type AnthropicBackend struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	settings AgentSettings
}

// NewAnthropicBackend creates a backend whose requests are bounded by settings.Timeout();
// ANTHROPIC_API_BASE_URL overrides the endpoint
func NewAnthropicBackend(apiKey string, settings AgentSettings) *AnthropicBackend {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	return &AnthropicBackend{
		apiKey:   apiKey,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: settings.Timeout()},
		settings: settings,
	}
}

// WithBaseURL points the backend at another endpoint
func (b *AnthropicBackend) WithBaseURL(baseURL string) *AnthropicBackend {
	b.baseURL = strings.TrimSuffix(baseURL, "/")
	return b
}

// Generate sends the conversation and answers tool_use blocks until the model stops asking
// for tools. Tool errors abort the round.
func (b *AnthropicBackend) Generate(ctx context.Context, system string, conversation []Message, tools []Tool) (Reply, error) {
	reply := Reply{Turns: conversationTurns(conversation)}

	request := anthropicRequest{
		Model:       b.settings.Model,
		System:      system,
		MaxTokens:   b.settings.MaxTokens,
		Temperature: b.settings.Temperature,
	}
	for _, m := range conversation {
		request.Messages = append(request.Messages, anthropicMessage{
			Role:    m.Role,
			Content: []anthropicContentBlock{{Type: "text", Text: m.Content}},
		})
	}
	for _, t := range tools {
		request.Tools = append(request.Tools, anthropicTool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: ignoredInputSchema,
		})
	}

	maxRounds := maxToolRounds(b.settings)
	for round := 0; ; round++ {
		resp, err := b.send(ctx, request)
		if err != nil {
			return reply, err
		}
		reply.Turns = append(reply.Turns, anthropicTurn(resp))
		request.Messages = append(request.Messages, anthropicMessage{Role: "assistant", Content: resp.Content})

		calls := toolUseBlocks(resp.Content)
		if resp.StopReason != "tool_use" || len(calls) == 0 {
			return reply, nil
		}
		if round >= maxRounds {
			return reply, fmt.Errorf("model still requesting tools after %d rounds", maxRounds)
		}

		results := make([]anthropicContentBlock, 0, len(calls))
		for _, call := range calls {
			result, err := runToolCall(ctx, tools, call.Name, string(call.Input))
			if err != nil {
				return reply, err
			}
			results = append(results, anthropicContentBlock{
				Type:      "tool_result",
				ToolUseID: call.ID,
				Content:   result.output,
				IsError:   result.isError,
			})
			reply.Turns = append(reply.Turns, Turn{Role: "tool", Content: TextContent(result.output)})
		}
		request.Messages = append(request.Messages, anthropicMessage{Role: "user", Content: results})
	}
}

func (b *AnthropicBackend) send(ctx context.Context, request anthropicRequest) (*anthropicResponse, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	debugLog("POST %s model=%s messages=%d", req.URL, request.Model, len(request.Messages))
	res, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("anthropic API: non-2xx status %d: %s", res.StatusCode, string(respBody))
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	debugLog("anthropic response id=%s stop_reason=%s blocks=%d", resp.ID, resp.StopReason, len(resp.Content))
	return &resp, nil
}

// anthropicTurn maps response blocks to parts: text blocks carry text, the rest do not
func anthropicTurn(resp *anthropicResponse) Turn {
	parts := make([]Part, 0, len(resp.Content))
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, Part{Kind: PartText, Text: block.Text})
		} else {
			parts = append(parts, Part{Kind: PartOther})
		}
	}
	return Turn{Role: "assistant", Content: PartsContent(parts...)}
}

func toolUseBlocks(blocks []anthropicContentBlock) []anthropicContentBlock {
	var calls []anthropicContentBlock
	for _, block := range blocks {
		if block.Type == "tool_use" {
			calls = append(calls, block)
		}
	}
	return calls
}

type toolCallResult struct {
	output  string
	isError bool
}

// runToolCall dispatches a backend tool request by name. Unknown tools are reported back to
// the model; failures of known tools are returned as errors.
func runToolCall(ctx context.Context, tools []Tool, name, argument string) (toolCallResult, error) {
	t, ok := FindTool(tools, name)
	if !ok {
		log.Printf("✗ Model requested unknown tool %q", name)
		return toolCallResult{output: fmt.Sprintf("unknown tool %q", name), isError: true}, nil
	}

	output, err := t.Invoke(ctx, argument)
	if err != nil {
		return toolCallResult{}, fmt.Errorf("tool %s: %w", name, err)
	}
	return toolCallResult{output: output}, nil
}
