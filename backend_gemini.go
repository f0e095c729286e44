package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend runs a Gemini chat session with function calling
type GeminiBackend struct {
	apiKey   string
	settings AgentSettings
}

// NewGeminiBackend creates a Gemini-backed backend
func NewGeminiBackend(apiKey string, settings AgentSettings) *GeminiBackend {
	return &GeminiBackend{apiKey: apiKey, settings: settings}
}

// Generate sends the last conversation message (earlier ones become chat history) and answers
// FunctionCall parts until the model replies without any.
func (b *GeminiBackend) Generate(ctx context.Context, system string, conversation []Message, tools []Tool) (Reply, error) {
	reply := Reply{Turns: conversationTurns(conversation)}
	if len(conversation) == 0 {
		return reply, fmt.Errorf("gemini: empty conversation")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(b.apiKey))
	if err != nil {
		return reply, fmt.Errorf("creating Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(b.settings.Model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	model.SetTemperature(float32(b.settings.Temperature))
	if b.settings.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(b.settings.MaxTokens))
	}
	model.Tools = geminiTools(tools)

	session := model.StartChat()
	last := len(conversation) - 1
	for _, m := range conversation[:last] {
		session.History = append(session.History, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	parts := []genai.Part{genai.Text(conversation[last].Content)}
	maxRounds := maxToolRounds(b.settings)
	for round := 0; ; round++ {
		sendCtx, cancel := context.WithTimeout(ctx, b.settings.Timeout())
		resp, err := session.SendMessage(sendCtx, parts...)
		cancel()
		if err != nil {
			return reply, fmt.Errorf("gemini: %w", err)
		}

		turn, calls := geminiTurn(resp)
		reply.Turns = append(reply.Turns, turn)
		if len(calls) == 0 {
			return reply, nil
		}
		if round >= maxRounds {
			return reply, fmt.Errorf("model still requesting tools after %d rounds", maxRounds)
		}

		parts = make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				return reply, fmt.Errorf("encoding %s arguments: %w", call.Name, err)
			}
			result, err := runToolCall(ctx, tools, call.Name, string(args))
			if err != nil {
				return reply, err
			}
			response := map[string]any{"result": result.output}
			if result.isError {
				response = map[string]any{"error": result.output}
			}
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: response})
			reply.Turns = append(reply.Turns, Turn{Role: "tool", Content: TextContent(result.output)})
		}
	}
}

func geminiTools(tools []Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Ignored; any value is accepted."},
				},
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func geminiRole(role string) string {
	if role == "assistant" {
		return "model"
	}
	return "user"
}

// geminiTurn maps the first candidate's parts: genai.Text parts are plain strings, everything
// else carries no text. FunctionCall parts are also returned for dispatch.
func geminiTurn(resp *genai.GenerateContentResponse) (Turn, []genai.FunctionCall) {
	turn := Turn{Role: "assistant", Content: PartsContent()}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return turn, nil
	}

	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			turn.Content.Parts = append(turn.Content.Parts, Part{Kind: PartString, Text: string(p)})
		case genai.FunctionCall:
			calls = append(calls, p)
			turn.Content.Parts = append(turn.Content.Parts, Part{Kind: PartOther})
		default:
			turn.Content.Parts = append(turn.Content.Parts, Part{Kind: PartOther})
		}
	}
	return turn, calls
}
