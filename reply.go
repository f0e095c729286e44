package main

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// ContentKind tells which shape a turn's content attribute has
type ContentKind int

const (
	ContentAbsent ContentKind = iota // the turn exposes no content attribute
	ContentText                      // plain string
	ContentParts                     // ordered sequence of parts
	ContentOther                     // present, but neither a string nor a sequence
)

// PartKind tells which shape one element of a multi-part content has
type PartKind int

const (
	PartString PartKind = iota // bare string element
	PartText                   // structure carrying a text field
	PartOther                  // anything else (tool calls, images, ...)
)

// Part is one element of multi-part content
type Part struct {
	Kind PartKind
	Text string
}

// Content is a turn's content attribute
type Content struct {
	Kind  ContentKind
	Text  string
	Parts []Part
}

// Turn is one unit of backend output. Mapping is set when the turn arrived as a raw
// key/value structure rather than a typed message.
type Turn struct {
	Role    string
	Content Content
	Mapping map[string]any
}

// Reply is the turn sequence a backend returns
type Reply struct {
	Turns []Turn
}

// TextContent builds plain-string content
func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

// PartsContent builds multi-part content
func PartsContent(parts ...Part) Content {
	return Content{Kind: ContentParts, Parts: parts}
}

// DecodeReply builds a Reply from raw JSON by inspecting its structure. It accepts
// {"messages": [...]}, a bare array of turns, or a single turn object. Malformed JSON is
// repaired before giving up.
func DecodeReply(data []byte) (Reply, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(data))
		if repairErr != nil {
			return Reply{}, fmt.Errorf("decoding reply: %w (repair failed: %v)", err, repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			return Reply{}, fmt.Errorf("decoding repaired reply: %w", err)
		}
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		if messages, ok := v["messages"].([]any); ok {
			items = messages
		} else {
			items = []any{v}
		}
	default:
		return Reply{}, fmt.Errorf("decoding reply: unexpected top-level %T", raw)
	}

	reply := Reply{Turns: make([]Turn, 0, len(items))}
	for _, item := range items {
		reply.Turns = append(reply.Turns, decodeTurn(item))
	}
	return reply, nil
}

func decodeTurn(item any) Turn {
	switch v := item.(type) {
	case string:
		return Turn{Content: TextContent(v)}
	case map[string]any:
		turn := Turn{Mapping: v}
		turn.Role, _ = v["role"].(string)
		if content, ok := v["content"]; ok {
			turn.Content = decodeContent(content)
		}
		return turn
	default:
		return Turn{}
	}
}

func decodeContent(content any) Content {
	switch v := content.(type) {
	case string:
		return TextContent(v)
	case []any:
		parts := make([]Part, 0, len(v))
		for _, element := range v {
			parts = append(parts, decodePart(element))
		}
		return PartsContent(parts...)
	default:
		return Content{Kind: ContentOther}
	}
}

func decodePart(element any) Part {
	switch v := element.(type) {
	case string:
		return Part{Kind: PartString, Text: v}
	case map[string]any:
		if text, ok := v["text"].(string); ok {
			return Part{Kind: PartText, Text: text}
		}
	}
	return Part{Kind: PartOther}
}

// EncodeReply writes reply in the {"messages": [...]} form DecodeReply reads back
func EncodeReply(reply Reply) ([]byte, error) {
	messages := make([]any, 0, len(reply.Turns))
	for _, turn := range reply.Turns {
		messages = append(messages, encodeTurn(turn))
	}
	return json.MarshalIndent(map[string]any{"messages": messages}, "", "  ")
}

func encodeTurn(turn Turn) any {
	if turn.Mapping != nil {
		return turn.Mapping
	}

	message := map[string]any{}
	if turn.Role != "" {
		message["role"] = turn.Role
	}
	switch turn.Content.Kind {
	case ContentText:
		message["content"] = turn.Content.Text
	case ContentParts:
		parts := make([]any, 0, len(turn.Content.Parts))
		for _, part := range turn.Content.Parts {
			switch part.Kind {
			case PartString:
				parts = append(parts, part.Text)
			case PartText:
				parts = append(parts, map[string]any{"type": "text", "text": part.Text})
			default:
				parts = append(parts, map[string]any{"type": "other"})
			}
		}
		message["content"] = parts
	case ContentOther:
		message["content"] = nil
	}
	return message
}
