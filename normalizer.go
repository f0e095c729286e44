package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize flattens the last turn of a reply into plain text. Precedence:
// string content, then the text-bearing parts of multi-part content, then the string form of
// a mapping's "content" field. Anything else yields "".
func Normalize(reply Reply) string {
	if len(reply.Turns) == 0 {
		return ""
	}
	last := reply.Turns[len(reply.Turns)-1]

	switch last.Content.Kind {
	case ContentText:
		return last.Content.Text
	case ContentParts:
		if text, ok := joinTextParts(last.Content.Parts); ok {
			return text
		}
	}

	if last.Mapping != nil {
		return stringForm(last.Mapping["content"])
	}
	return ""
}

func joinTextParts(parts []Part) (string, bool) {
	var texts []string
	for _, part := range parts {
		if part.Kind == PartString || part.Kind == PartText {
			texts = append(texts, part.Text)
		}
	}
	if len(texts) == 0 {
		return "", false
	}
	return strings.Join(texts, "\n"), true
}

func stringForm(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
