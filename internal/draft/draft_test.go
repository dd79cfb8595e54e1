// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bloggpt/internal/chunk"
	"github.com/pdiddy/bloggpt/internal/llm/llmtest"
	"github.com/pdiddy/bloggpt/internal/output"
	"github.com/pdiddy/bloggpt/internal/vectorstore"
	"github.com/pdiddy/bloggpt/pkg/types"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, "A\n\nB\n\nC", Combine(map[int]string{0: "A", 1: "B", 2: "C"}))
	assert.Equal(t, "A\n\nC", Combine(map[int]string{2: "C", 0: "A"}), "missing sections are skipped")
	assert.Equal(t, "", Combine(nil))
}

func TestLoadDrafts(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"draft_0.md":        "intro",
		"draft_10.md":       "ten",
		"draft_2.md":        "two",
		"complete_draft.md": "ignored",
		"draft_x.md":        "ignored",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	drafts, err := LoadDrafts(dir)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "intro", 2: "two", 10: "ten"}, drafts)
	assert.Equal(t, "intro\n\ntwo\n\nten", Combine(drafts))
}

func TestFilterDrafted(t *testing.T) {
	drafts := map[int]string{0: "intro", 1: "stale training", 2: "conclusion", 5: "old run"}
	m := types.RunManifest{Sections: []types.SectionRecord{
		{Index: 0, Status: types.SectionDrafted},
		{Index: 1, Status: types.SectionFailed},
		{Index: 2, Status: types.SectionDrafted},
		{Index: 3, Status: types.SectionDrafted},
	}}

	assert.Equal(t, map[int]string{0: "intro", 2: "conclusion"}, FilterDrafted(drafts, m))
	assert.Empty(t, FilterDrafted(drafts, types.RunManifest{}))
}

func TestLoadDrafts_MissingDir(t *testing.T) {
	_, err := LoadDrafts(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

type runnerFunc func(ctx context.Context, prompt string) (string, error)

func (f runnerFunc) Run(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

var falconSection = Section{
	Index:     1,
	TopicLine: "Topic: Falcon LLM",
	Topic:     "Falcon LLM",
	Header:    "Training",
	Body:      "# Training\nHow Falcon was trained.",
	Context:   "Falcon is an open model.",
}

func TestAgentDrafter(t *testing.T) {
	var got string
	d := &AgentDrafter{Agent: runnerFunc(func(_ context.Context, prompt string) (string, error) {
		got = prompt
		return "## Training\nOn RefinedWeb.", nil
	})}

	text, err := d.Draft(context.Background(), falconSection)
	require.NoError(t, err)
	assert.Equal(t, "## Training\nOn RefinedWeb.", text)
	assert.Contains(t, got, "Topic: Falcon LLM")
	assert.Contains(t, got, "# Training\nHow Falcon was trained.")
	assert.Contains(t, got, "Falcon is an open model.")
}

func TestAgentDrafter_Errors(t *testing.T) {
	boom := errors.New("rate limited")
	d := &AgentDrafter{Agent: runnerFunc(func(context.Context, string) (string, error) { return "", boom })}
	_, err := d.Draft(context.Background(), falconSection)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Training")

	d = &AgentDrafter{Agent: runnerFunc(func(context.Context, string) (string, error) { return "  \n", nil })}
	_, err = d.Draft(context.Background(), falconSection)
	assert.ErrorIs(t, err, ErrEmptyDraft)
}

// fakeExtractor returns fixed texts and records what it was asked.
type fakeExtractor struct {
	texts []string
	err   error
	query string
	n     int
}

func (f *fakeExtractor) Extract(_ context.Context, query string, n int, w io.Writer) ([]string, error) {
	f.query, f.n = query, n
	for _, t := range f.texts {
		io.WriteString(w, t+"\n\n")
	}
	return f.texts, f.err
}

// topicEmbedder puts texts mentioning Falcon on one axis and the rest on
// the other, so scores are exactly 1 or 0.
type topicEmbedder struct{}

func (topicEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if strings.Contains(strings.ToLower(t), "falcon") {
			out[i] = []float32{1, 0}
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

// paragraphs splits on blank lines so each fetched text is one passage.
type paragraphs struct{}

func (paragraphs) Split(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newRetrieval(t *testing.T, ex Extractor, chat *llmtest.Chat) (*RetrievalDrafter, *output.Dir) {
	t.Helper()
	out, err := output.New(filepath.Join(t.TempDir(), "outputs"))
	require.NoError(t, err)

	store, err := vectorstore.OpenSQLite(types.VectorConfig{
		DSN:          filepath.Join(t.TempDir(), "vectors.db"),
		Index:        "bloggpt",
		Dimension:    2,
		PollInterval: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Provision(context.Background()))

	return &RetrievalDrafter{
		Extract:  ex,
		Split:    paragraphs{},
		Embedder: topicEmbedder{},
		Store:    store,
		Chat:     chat,
		Model:    "gpt-4-0613",
		Out:      out,
		Config:   types.DefaultConfig().Draft,
	}, out
}

func TestRetrievalDrafter(t *testing.T) {
	ex := &fakeExtractor{texts: []string{"Falcon is fast<|endoftext|>", "unrelated gardening tips"}}
	chat := &llmtest.Chat{Replies: []llmtest.Reply{llmtest.Text("## Training\nFast.")}}
	d, out := newRetrieval(t, ex, chat)

	text, err := d.Draft(context.Background(), falconSection)
	require.NoError(t, err)
	assert.Equal(t, "## Training\nFast.", text)

	assert.Equal(t, "Falcon LLM, Training", ex.query)
	assert.Equal(t, 10, ex.n)

	raw, err := os.ReadFile(out.File(output.SearchTextsFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<|endoftext|>", "raw texts are kept as fetched")

	docs, err := os.ReadFile(out.File(output.RetrievedDocsName(1)))
	require.NoError(t, err)
	assert.Equal(t, "Falcon is fast\nunrelated gardening tips\n", string(docs))

	require.Len(t, chat.Requests, 1)
	req := chat.Requests[0]
	assert.Equal(t, "gpt-4-0613", req.Model)
	assert.Equal(t, RetrievalTemperature, req.Temperature)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Falcon is fast")
	assert.NotContains(t, prompt, "gardening", "passages at or below the score floor are dropped")
	assert.Contains(t, prompt, "How Falcon was trained.")
}

func TestRetrievalDrafter_ExtractFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	chat := &llmtest.Chat{}
	d, _ := newRetrieval(t, &fakeExtractor{err: boom}, chat)

	_, err := d.Draft(context.Background(), falconSection)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, chat.CallCount())
}

func TestRetrievalDrafter_PartialExtractContinues(t *testing.T) {
	ex := &fakeExtractor{texts: []string{"Falcon uses RefinedWeb"}, err: errors.New("quota exceeded")}
	chat := &llmtest.Chat{Replies: []llmtest.Reply{llmtest.Text("ok")}}
	d, _ := newRetrieval(t, ex, chat)

	text, err := d.Draft(context.Background(), falconSection)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestRetrievalDrafter_DefaultSplitterUsesTokens(t *testing.T) {
	ex := &fakeExtractor{texts: []string{"Falcon is fast"}}
	chat := &llmtest.Chat{Replies: []llmtest.Reply{llmtest.Text("ok")}}
	d, out := newRetrieval(t, ex, chat)
	d.Split = nil

	_, err := d.Draft(context.Background(), falconSection)
	require.NoError(t, err)

	ts, ok := d.Split.(*chunk.TokenSplitter)
	require.True(t, ok)
	assert.Equal(t, types.DefaultConfig().Draft.ChunkSize, ts.Size)
	assert.Equal(t, types.DefaultConfig().Draft.ChunkOverlap, ts.Overlap)

	docs, err := os.ReadFile(out.File(output.RetrievedDocsName(1)))
	require.NoError(t, err)
	assert.Equal(t, "Falcon is fast\n", string(docs))
}

func TestRelevant(t *testing.T) {
	docs := []types.RetrievedDocument{{Text: "a", Score: 0.9}, {Text: "b", Score: 0.85}, {Text: "c", Score: 0.86}}
	assert.Equal(t, "a\nc", relevant(docs, 0.85))
}
