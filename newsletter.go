package main

import (
	"context"
	"fmt"
	"log"
	"os"
)

// NewsletterOrchestrator drives one newsletter run: a single backend call with the release
// notes tool available, followed by normalization of the reply.
type NewsletterOrchestrator struct {
	backend      Backend
	tools        []Tool
	systemPrompt string
	userPrompt   string
	replyPath    string
}

// NewNewsletterOrchestrator creates an orchestrator using the prompts from config
func NewNewsletterOrchestrator(backend Backend, tools []Tool, config *Config) *NewsletterOrchestrator {
	return &NewsletterOrchestrator{
		backend:      backend,
		tools:        tools,
		systemPrompt: config.GetSystemPrompt(),
		userPrompt:   config.GetUserPrompt(),
	}
}

// SetReplyPath makes Run persist the raw backend reply at path
func (o *NewsletterOrchestrator) SetReplyPath(path string) {
	o.replyPath = path
}

// Run generates the newsletter. Backend and tool failures abort the run; an empty result is
// returned as "" without error.
func (o *NewsletterOrchestrator) Run(ctx context.Context) (string, error) {
	conversation := []Message{{Role: "user", Content: o.userPrompt}}

	log.Printf("→ Generating newsletter with %d tool(s)", len(o.tools))
	reply, err := o.backend.Generate(ctx, o.systemPrompt, conversation, o.tools)
	if err != nil {
		return "", fmt.Errorf("generating newsletter: %w", err)
	}
	debugLog("backend returned %d turns", len(reply.Turns))

	if o.replyPath != "" {
		if err := saveReply(o.replyPath, reply); err != nil {
			return "", err
		}
		log.Printf("✓ Saved reply to %s", o.replyPath)
	}

	text := Normalize(reply)
	if text == "" {
		log.Printf("Warning: backend reply contained no text")
		return "", nil
	}
	log.Printf("✓ Newsletter ready (%d characters)", len(text))
	return text, nil
}

func saveReply(path string, reply Reply) error {
	data, err := EncodeReply(reply)
	if err != nil {
		return fmt.Errorf("encoding reply: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("saving reply to %s: %w", path, err)
	}
	return nil
}
