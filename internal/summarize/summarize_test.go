// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bloggpt/internal/llm/llmtest"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "w"
	}
	return strings.Join(w, "  \n")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		n         int
		wantWords int
		truncated bool
	}{
		{"under cap unchanged", words(5), 10, 5, false},
		{"exactly cap unchanged", words(10), 10, 10, false},
		{"over cap cut", words(11), 10, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Truncate(tt.in, tt.n)
			assert.Equal(t, tt.truncated, truncated)
			assert.Len(t, strings.Fields(got), tt.wantWords)
			if !tt.truncated {
				assert.Equal(t, tt.in, got, "untruncated text is passed through verbatim")
			}
		})
	}
}

func TestSummarize_TruncatesAt12000Words(t *testing.T) {
	chat := &llmtest.Chat{Replies: []llmtest.Reply{llmtest.Text("short summary")}}
	s := &Summarizer{Chat: chat, Model: "gpt-3.5-turbo-16k-0613"}

	got, ok := s.Summarize(context.Background(), words(15000))
	require.True(t, ok)
	assert.Equal(t, "short summary", got)

	require.Equal(t, 1, chat.CallCount())
	req := chat.Requests[0]
	prompt := req.Messages[0].Content
	body := prompt[strings.Index(prompt, `"`)+1 : strings.LastIndex(prompt, `"`)]
	assert.Len(t, strings.Fields(body), 12000)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("w ", 12000)), body)

	assert.Equal(t, "gpt-3.5-turbo-16k-0613", req.Model)
	assert.Equal(t, 0.0, req.Temperature)
	assert.Equal(t, 300, req.MaxTokens)
}

func TestSummarize_ShortTextUnchanged(t *testing.T) {
	chat := &llmtest.Chat{Replies: []llmtest.Reply{llmtest.Text("s")}}
	s := &Summarizer{Chat: chat, Model: "m"}

	_, ok := s.Summarize(context.Background(), "keep   this\nspacing")
	require.True(t, ok)
	assert.Contains(t, chat.Requests[0].Messages[0].Content, `"keep   this`+"\n"+`spacing"`)
}

func TestSummarize_FailureIsSoft(t *testing.T) {
	chat := &llmtest.Chat{Replies: []llmtest.Reply{llmtest.Fail(errors.New("context length exceeded"))}}
	s := &Summarizer{Chat: chat, Model: "m"}

	got, ok := s.Summarize(context.Background(), "text")
	assert.False(t, ok)
	assert.Empty(t, got)
}
