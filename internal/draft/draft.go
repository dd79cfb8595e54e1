// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft writes blog sections and combines them into one document.
//
// A Drafter turns one outline section into markdown prose. Two
// implementations exist: AgentDrafter researches with a tool-using agent,
// and RetrievalDrafter grounds the section in passages retrieved from a
// vector index built from freshly fetched pages. A Drafter error means the
// section produced nothing; the caller skips it and carries on.
package draft

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/bloggpt/pkg/types"
)

// ErrEmptyDraft is returned when the model answers with no text.
var ErrEmptyDraft = errors.New("draft: empty section")

// Section is everything a Drafter needs to write one outline section.
type Section struct {
	Index     int    // position in the outline, from 0
	TopicLine string // e.g. "Topic: Falcon LLM"
	Topic     string // e.g. "Falcon LLM"
	Header    string
	Body      string // the outline block, header line included
	Context   string // topic-wide research, may be empty
}

// Drafter writes the prose for one section.
type Drafter interface {
	Draft(ctx context.Context, s Section) (string, error)
}

// Combine concatenates drafts in section order, separated by a blank line.
// Sections with no entry are left out.
func Combine(drafts map[int]string) string {
	indexes := make([]int, 0, len(drafts))
	for i := range drafts {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, drafts[i])
	}
	return strings.Join(parts, "\n\n")
}

// draftFilePattern matches draft_<n>.md.
var draftFilePattern = regexp.MustCompile(`^draft_(\d+)\.md$`)

// LoadDrafts reads every draft_<n>.md in dir, keyed by n.
func LoadDrafts(dir string) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading drafts directory: %w", err)
	}

	drafts := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := draftFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		drafts[n] = string(data)
	}
	return drafts, nil
}

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDraft
	}
	return text, nil
}

// FilterDrafted keeps the drafts whose section m records as drafted. Files
// left by earlier runs or by failed sections are dropped.
func FilterDrafted(drafts map[int]string, m types.RunManifest) map[int]string {
	out := make(map[int]string, len(drafts))
	for _, s := range m.Sections {
		if text, ok := drafts[s.Index]; ok && s.Status == types.SectionDrafted {
			out[s.Index] = text
		}
	}
	return out
}
