// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/bloggpt/internal/chunk"
	"github.com/pdiddy/bloggpt/internal/llm"
	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/internal/output"
	"github.com/pdiddy/bloggpt/internal/prompts"
	"github.com/pdiddy/bloggpt/internal/vectorstore"
	"github.com/pdiddy/bloggpt/pkg/types"
)

// endOfText is the tokenizer control marker some pages carry verbatim.
const endOfText = "<|endoftext|>"

// RetrievalTemperature is the sampling temperature for retrieval drafts.
const RetrievalTemperature = 0.7

// Extractor gathers page texts for a query. *research.Gatherer satisfies it.
type Extractor interface {
	Extract(ctx context.Context, query string, n int, w io.Writer) ([]string, error)
}

// Splitter cuts a corpus into passages. *chunk.TokenSplitter satisfies it.
type Splitter interface {
	Split(text string) []string
}

// RetrievalDrafter writes a section from passages retrieved out of pages
// fetched for that section. A nil Split uses cl100k_base token windows of
// Config.ChunkSize with Config.ChunkOverlap.
type RetrievalDrafter struct {
	Extract  Extractor
	Split    Splitter
	Embedder llm.Embedder
	Store    vectorstore.Store
	Chat     llm.ChatModel
	Model    string
	Out      *output.Dir
	Config   types.DraftConfig
	Log      *logger.Logger
}

func (d *RetrievalDrafter) Draft(ctx context.Context, s Section) (string, error) {
	query := fmt.Sprintf("%s, %s", s.Topic, s.Header)

	var raw strings.Builder
	texts, err := d.Extract.Extract(ctx, query, d.Config.ExtractResults, &raw)
	if err != nil {
		if len(texts) == 0 {
			return "", fmt.Errorf("extracting sources for %q: %w", s.Header, err)
		}
		d.Log.Warn("section %q continues with %d extracted sources: %v", s.Header, len(texts), err)
	}
	if _, err := d.Out.Write(output.SearchTextsFile, raw.String()); err != nil {
		return "", err
	}

	split, err := d.splitter()
	if err != nil {
		return "", err
	}
	corpus := strings.ReplaceAll(raw.String(), endOfText, " ")
	if err := d.index(ctx, s.Header, split.Split(corpus)); err != nil {
		return "", err
	}

	docs, err := d.retrieve(ctx, s.Header, s.Topic)
	if err != nil {
		return "", err
	}
	if _, err := d.Out.WriteRetrievedDocs(s.Index, docs); err != nil {
		return "", err
	}

	prompt, err := prompts.Render(prompts.SectionRetrieval, prompts.SectionRetrievalData{
		Topic:   s.Topic,
		Context: relevant(docs, d.Config.MinScore),
		Section: s.Body,
	})
	if err != nil {
		return "", err
	}

	text, err := llm.Prompt(ctx, d.Chat, d.Model, RetrievalTemperature, 0, prompt)
	if err != nil {
		return "", fmt.Errorf("drafting %q: %w", s.Header, err)
	}
	return nonEmpty(text)
}

func (d *RetrievalDrafter) splitter() (Splitter, error) {
	if d.Split != nil {
		return d.Split, nil
	}
	ts, err := chunk.NewTokenSplitter(d.Config.ChunkSize, d.Config.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	d.Split = ts
	return ts, nil
}

// index embeds chunks in batches and stores them under namespace.
func (d *RetrievalDrafter) index(ctx context.Context, namespace string, chunks []string) error {
	if len(chunks) == 0 {
		d.Log.Warn("no text to index for %q", namespace)
		return nil
	}
	batches := chunk.Batches(chunks, d.Config.EmbedBatchSize)
	for i, batch := range batches {
		vectors, err := d.Embedder.Embed(ctx, batch)
		if err != nil {
			return fmt.Errorf("embedding batch %d/%d for %q: %w", i+1, len(batches), namespace, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding batch %d/%d for %q: got %d vectors for %d chunks",
				i+1, len(batches), namespace, len(vectors), len(batch))
		}
		records := make([]vectorstore.Record, len(batch))
		for j, text := range batch {
			records[j] = vectorstore.Record{ID: uuid.NewString(), Text: text, Vector: vectors[j]}
		}
		if err := d.Store.Upsert(ctx, namespace, records); err != nil {
			return fmt.Errorf("indexing %q: %w", namespace, err)
		}
	}
	d.Log.Debug("indexed %d chunks for %q", len(chunks), namespace)
	return nil
}

// retrieve returns the passages in namespace nearest to the topic.
func (d *RetrievalDrafter) retrieve(ctx context.Context, namespace, topic string) ([]types.RetrievedDocument, error) {
	vectors, err := d.Embedder.Embed(ctx, []string{topic})
	if err != nil {
		return nil, fmt.Errorf("embedding topic: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding topic: got %d vectors", len(vectors))
	}
	matches, err := d.Store.Query(ctx, namespace, vectors[0], d.Config.TopK)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", namespace, err)
	}
	docs := make([]types.RetrievedDocument, len(matches))
	for i, m := range matches {
		docs[i] = types.RetrievedDocument{Text: m.Text, Score: m.Score}
	}
	return docs, nil
}

// relevant joins the texts of docs scoring strictly above minScore.
func relevant(docs []types.RetrievedDocument, minScore float64) string {
	var keep []string
	for _, doc := range docs {
		if doc.Score > minScore {
			keep = append(keep, doc.Text)
		}
	}
	return strings.Join(keep, "\n")
}
