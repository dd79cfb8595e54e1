// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite polishes a combined draft into the final blog post.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/bloggpt/internal/llm"
	"github.com/pdiddy/bloggpt/internal/prompts"
)

// DefaultTemperature is the sampling temperature for the final pass.
const DefaultTemperature = 0.5

// Rewriter makes one completion over the whole draft.
type Rewriter struct {
	Chat        llm.ChatModel
	Model       string
	Temperature float64
}

// New returns a Rewriter at DefaultTemperature.
func New(chat llm.ChatModel, model string) *Rewriter {
	return &Rewriter{Chat: chat, Model: model, Temperature: DefaultTemperature}
}

// Rewrite returns the polished blog for draft. topic is the raw topic line.
func (r *Rewriter) Rewrite(ctx context.Context, topic, draft string) (string, error) {
	if strings.TrimSpace(draft) == "" {
		return "", fmt.Errorf("rewriting blog: empty draft")
	}
	prompt, err := prompts.Render(prompts.Rewrite, prompts.RewriteData{Topic: topic, Draft: draft})
	if err != nil {
		return "", err
	}
	text, err := llm.Prompt(ctx, r.Chat, r.Model, r.Temperature, 0, prompt)
	if err != nil {
		return "", fmt.Errorf("rewriting blog: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("rewriting blog: %w", llm.ErrEmptyResponse)
	}
	return text, nil
}
