// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize condenses fetched page text with a single LLM call.
package summarize

import (
	"context"
	"strings"

	"github.com/pdiddy/bloggpt/internal/llm"
	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/internal/prompts"
)

// Defaults for the summary completion.
const (
	DefaultWordCap   = 12000
	DefaultMaxTokens = 300
)

// Summarizer produces a detailed summary of a text.
type Summarizer struct {
	Chat      llm.ChatModel
	Model     string
	WordCap   int
	MaxTokens int
	Log       *logger.Logger
}

// Summarize truncates text to WordCap words when it is longer and asks the
// model for a summary at temperature 0. ok is false when the completion
// fails; the failure is logged.
func (s *Summarizer) Summarize(ctx context.Context, text string) (summary string, ok bool) {
	capWords := s.WordCap
	if capWords <= 0 {
		capWords = DefaultWordCap
	}
	text, truncated := Truncate(text, capWords)
	if truncated {
		s.Log.Info("truncating text to %d words", capWords)
	}

	prompt, err := prompts.Render(prompts.Summarize, prompts.SummarizeData{Text: text})
	if err != nil {
		s.Log.Error("%v", err)
		return "", false
	}

	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	summary, err = llm.Prompt(ctx, s.Chat, s.Model, 0, maxTokens, prompt)
	if err != nil {
		s.Log.Error("summarizing %d words: %v", len(strings.Fields(text)), err)
		return "", false
	}
	return summary, true
}

// Truncate returns the first n whitespace-separated words of text joined by
// single spaces when text has more than n words. Otherwise text is returned
// unchanged and truncated is false.
func Truncate(text string, n int) (out string, truncated bool) {
	words := strings.Fields(text)
	if len(words) <= n {
		return text, false
	}
	return strings.Join(words[:n], " "), true
}
