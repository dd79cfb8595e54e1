// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"golang.org/x/term"

	"github.com/pdiddy/bloggpt/internal/fetch"
	"github.com/pdiddy/bloggpt/internal/httputil"
	"github.com/pdiddy/bloggpt/internal/llm"
	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/internal/research"
	"github.com/pdiddy/bloggpt/internal/search"
	"github.com/pdiddy/bloggpt/internal/sink"
	"github.com/pdiddy/bloggpt/internal/summarize"
	"github.com/pdiddy/bloggpt/pkg/types"
)

// stage bundles the configuration and shared clients a subcommand needs.
type stage struct {
	cfg  types.Config
	log  *logger.Logger
	sink sink.Sink
}

func newStage() (*stage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &stage{cfg: cfg, log: log, sink: sink.NewWriter(os.Stdout, isTerminal(os.Stdout))}, nil
}

// isTerminal reports whether f is attached to a terminal, which decides
// whether output is colored.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (s *stage) fetcher() *fetch.Fetcher {
	return fetch.New(httputil.NewGetter(s.cfg.Fetch), s.log)
}

func (s *stage) searcher(ctx context.Context) (*search.Google, error) {
	return search.NewGoogle(ctx, s.cfg.Search, s.log)
}

func (s *stage) model() (*llm.OpenAI, error) {
	return llm.NewOpenAI(s.cfg.LLM)
}

func (s *stage) summarizer(chat llm.ChatModel) *summarize.Summarizer {
	return &summarize.Summarizer{
		Chat:    chat,
		Model:   s.cfg.LLM.SummaryModel,
		WordCap: s.cfg.Draft.SummaryWordCap,
		Log:     s.log,
	}
}

// gatherer wires search, fetch and summarization into a research loop.
func (s *stage) gatherer(ctx context.Context, chat llm.ChatModel) (*research.Gatherer, error) {
	searcher, err := s.searcher(ctx)
	if err != nil {
		return nil, err
	}
	return &research.Gatherer{
		Search:    searcher,
		Fetch:     s.fetcher(),
		Summarize: s.summarizer(chat),
		Sink:      s.sink,
		Log:       s.log,
		PageSize:  s.cfg.Search.PageSize,
	}, nil
}
