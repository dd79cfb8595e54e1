// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one blog generation: gather topic context, draft
// every outline section, combine the drafts, rewrite them into the final
// post, and persist each artifact along the way.
//
// Section failures are not fatal. A section whose drafter errors is
// reported through the Sink and left out of the combined draft. Failures
// while combining, rewriting or writing the final post end the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/bloggpt/internal/draft"
	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/internal/outline"
	"github.com/pdiddy/bloggpt/internal/output"
	"github.com/pdiddy/bloggpt/internal/sink"
	"github.com/pdiddy/bloggpt/pkg/types"
)

var (
	// ErrNoSections is returned when the outline yields no sections.
	ErrNoSections = errors.New("pipeline: outline has no sections")
	// ErrNoDrafts is returned when every section failed to draft.
	ErrNoDrafts = errors.New("pipeline: no section was drafted")
)

// ContextSource supplies research shared by all sections.
type ContextSource interface {
	TopicContext(ctx context.Context, topic string) (string, error)
}

// Rewriter turns the combined draft into the final post.
type Rewriter interface {
	Rewrite(ctx context.Context, topic, draft string) (string, error)
}

// Pipeline holds the collaborators of a run. Context may be nil.
type Pipeline struct {
	Drafter  draft.Drafter
	Context  ContextSource
	Rewriter Rewriter
	Out      *output.Dir
	Sink     sink.Sink
	Log      *logger.Logger

	Variant   types.DraftVariant
	FinalFile string // defaults to blog.md
	HTML      bool   // also render the final post to HTML

	now func() time.Time
}

// Run generates a blog for topic following o. topic may be a bare subject
// or a "Topic: X" line. The returned manifest is also written to the output
// directory, including when the run fails after drafting started.
func (p *Pipeline) Run(ctx context.Context, topic string, o outline.Outline) (types.RunManifest, error) {
	sections := o.Sections()
	if len(sections) == 0 {
		return types.RunManifest{}, ErrNoSections
	}
	if !o.Aligned() {
		p.Log.Warn("outline has %d headers but %d sections; using the first %d",
			len(o.Headers), len(o.Bodies), len(sections))
	}

	topicLine := outline.TopicLine(topic)
	subject := outline.ParseTopic(topicLine)

	m := types.RunManifest{
		RunID:     uuid.NewString(),
		Topic:     subject,
		Variant:   p.Variant,
		StartedAt: p.clock(),
	}
	p.Log.Info("run %s: %d sections on %q", m.RunID, len(sections), subject)

	err := p.run(ctx, topicLine, subject, sections, &m)

	m.FinishedAt = p.clock()
	if _, werr := p.Out.WriteManifest(m); werr != nil {
		p.Log.Warn("writing manifest: %v", werr)
	}
	return m, err
}

func (p *Pipeline) run(ctx context.Context, topicLine, subject string, sections []types.OutlineSection, m *types.RunManifest) error {
	topicContext := p.topicContext(ctx, subject)

	drafts := make(map[int]string, len(sections))
	for i, s := range sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.emit(fmt.Sprintf("Generating section %d/%d: %s", i+1, len(sections), s.Header), sink.Info)

		text, err := p.Drafter.Draft(ctx, draft.Section{
			Index:     i,
			TopicLine: topicLine,
			Topic:     subject,
			Header:    s.Header,
			Body:      s.Body,
			Context:   topicContext,
		})
		rec := types.SectionRecord{Index: i, Header: s.Header}
		if err != nil {
			p.Log.Error("section %d (%s): %v", i, s.Header, err)
			p.emit(fmt.Sprintf("Failed to generate section %q, skipping it", s.Header), sink.Alert)
			rec.Status, rec.Error = types.SectionFailed, err.Error()
			m.Sections = append(m.Sections, rec)
			continue
		}

		drafts[i] = text
		path, err := p.Out.Write(output.DraftName(i), text)
		if err != nil {
			p.Log.Warn("persisting section %d: %v", i, err)
		}
		rec.Status, rec.Path = types.SectionDrafted, path
		m.Sections = append(m.Sections, rec)
		p.emit(text, sink.Markdown)
	}
	if len(drafts) == 0 {
		return ErrNoDrafts
	}

	combined := draft.Combine(drafts)
	path, err := p.Out.Write(output.CombinedFile, combined)
	if err != nil {
		return fmt.Errorf("writing combined draft: %w", err)
	}
	m.Combined = path

	p.emit("Rewriting the combined draft", sink.Info)
	final, err := p.Rewriter.Rewrite(ctx, topicLine, combined)
	if err != nil {
		return err
	}
	finalFile := p.FinalFile
	if finalFile == "" {
		finalFile = types.DefaultConfig().Output.FinalFile
	}
	if m.Final, err = p.Out.Write(finalFile, final); err != nil {
		return fmt.Errorf("writing final blog: %w", err)
	}
	if p.HTML {
		if m.FinalHTML, err = p.Out.WriteHTML(htmlName(finalFile), final); err != nil {
			return fmt.Errorf("writing final blog: %w", err)
		}
	}

	p.emit(final, sink.Markdown)
	p.emit(fmt.Sprintf("Blog written to %s (%d of %d sections)", m.Final, len(drafts), len(sections)), sink.Success)
	return nil
}

// topicContext returns the shared research, or "" when there is no source
// or it fails. Sections can still be drafted without it.
func (p *Pipeline) topicContext(ctx context.Context, subject string) string {
	if p.Context == nil {
		return ""
	}
	p.emit(fmt.Sprintf("Researching %q", subject), sink.Info)
	text, err := p.Context.TopicContext(ctx, subject)
	if err != nil {
		p.Log.Warn("topic context unavailable: %v", err)
		p.emit("Topic research failed, continuing without it", sink.Alert)
		return ""
	}
	return text
}

func (p *Pipeline) emit(text string, style sink.Style) {
	if p.Sink != nil {
		p.Sink.Emit(text, style)
	}
}

func (p *Pipeline) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now().UTC()
}

// htmlName swaps the extension of a markdown file name for .html.
func htmlName(md string) string {
	return strings.TrimSuffix(md, filepath.Ext(md)) + ".html"
}
