// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the bloggpt pipeline:
// run configuration, outline sections, drafts, retrieved documents and the
// run manifest.
package types

import "time"

// OutlineSection is one (header, body) pair of a blog outline.
type OutlineSection struct {
	// Header is the section title with the leading marker stripped.
	Header string `json:"header" yaml:"header"`

	// Body is the free-text description of what the section covers,
	// including any "Search internet for:" hints.
	Body string `json:"body" yaml:"body"`
}

// RetrievedDocument is a chunk returned by similarity search together with
// its relevance score.
type RetrievedDocument struct {
	Text  string  `json:"text" yaml:"text"`
	Score float64 `json:"score" yaml:"score"`
}

// SectionStatus records what happened to one outline section during a run.
type SectionStatus string

const (
	SectionDrafted SectionStatus = "drafted"
	SectionFailed  SectionStatus = "failed"
)

// SectionRecord is the manifest entry for one outline section.
type SectionRecord struct {
	Index  int           `json:"index" yaml:"index"`
	Header string        `json:"header" yaml:"header"`
	Status SectionStatus `json:"status" yaml:"status"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
	Path   string        `json:"path,omitempty" yaml:"path,omitempty"`
}

// RunManifest summarizes one pipeline run. It is written next to the
// artifacts when the run completes.
type RunManifest struct {
	RunID      string          `json:"run_id" yaml:"run_id"`
	Topic      string          `json:"topic" yaml:"topic"`
	Variant    DraftVariant    `json:"variant" yaml:"variant"`
	StartedAt  time.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time       `json:"finished_at" yaml:"finished_at"`
	Sections   []SectionRecord `json:"sections" yaml:"sections"`
	Combined   string          `json:"combined,omitempty" yaml:"combined,omitempty"`
	Final      string          `json:"final,omitempty" yaml:"final,omitempty"`
	FinalHTML  string          `json:"final_html,omitempty" yaml:"final_html,omitempty"`
}

// Drafted returns the number of sections that produced a draft.
func (m RunManifest) Drafted() int {
	n := 0
	for _, s := range m.Sections {
		if s.Status == SectionDrafted {
			n++
		}
	}
	return n
}
