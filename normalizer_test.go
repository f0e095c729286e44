package main

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		reply Reply
		want  string
	}{
		{
			name:  "no turns",
			reply: Reply{},
			want:  "",
		},
		{
			name: "string content of last turn",
			reply: Reply{Turns: []Turn{
				{Role: "user", Content: TextContent("Write it")},
				{Role: "assistant", Content: TextContent("Hello")},
			}},
			want: "Hello",
		},
		{
			name: "text parts joined",
			reply: Reply{Turns: []Turn{{Role: "assistant", Content: PartsContent(
				Part{Kind: PartText, Text: "A"},
				Part{Kind: PartOther},
				Part{Kind: PartString, Text: "B"},
			)}}},
			want: "A\nB",
		},
		{
			name: "empty text part still counts",
			reply: Reply{Turns: []Turn{{Content: PartsContent(
				Part{Kind: PartText, Text: ""},
			)}}},
			want: "",
		},
		{
			name: "parts without text and no mapping",
			reply: Reply{Turns: []Turn{{Content: PartsContent(
				Part{Kind: PartOther},
			)}}},
			want: "",
		},
		{
			name:  "empty string content",
			reply: Reply{Turns: []Turn{{Content: TextContent("")}}},
			want:  "",
		},
		{
			name:  "mapping with string content",
			reply: Reply{Turns: []Turn{{Content: Content{Kind: ContentOther}, Mapping: map[string]any{"content": "from map"}}}},
			want:  "from map",
		},
		{
			name:  "mapping with structured content",
			reply: Reply{Turns: []Turn{{Content: Content{Kind: ContentOther}, Mapping: map[string]any{"content": map[string]any{"k": 1}}}}},
			want:  `{"k":1}`,
		},
		{
			name:  "mapping without content",
			reply: Reply{Turns: []Turn{{Mapping: map[string]any{"role": "assistant"}}}},
			want:  "",
		},
		{
			name:  "absent content without mapping",
			reply: Reply{Turns: []Turn{{Role: "assistant"}}},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.reply); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeDecodedReplies(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "messages wrapper",
			json: `{"messages":[{"role":"user","content":"q"},{"role":"assistant","content":"Hello"}]}`,
			want: "Hello",
		},
		{
			name: "mixed parts",
			json: `[{"role":"assistant","content":[{"text":"A"},"B"]}]`,
			want: "A\nB",
		},
		{
			name: "tool call parts only",
			json: `[{"role":"assistant","content":[{"type":"tool_use","name":"x"}]}]`,
			want: `[{"name":"x","type":"tool_use"}]`,
		},
		{
			name: "null content",
			json: `{"role":"assistant","content":null}`,
			want: "",
		},
		{
			name: "numeric content",
			json: `{"role":"assistant","content":42}`,
			want: "42",
		},
		{
			name: "bare string turn",
			json: `["plain"]`,
			want: "plain",
		},
		{
			name: "empty messages",
			json: `{"messages":[]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := DecodeReply([]byte(tt.json))
			if err != nil {
				t.Fatalf("DecodeReply() unexpected error: %v", err)
			}
			if got := Normalize(reply); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}
