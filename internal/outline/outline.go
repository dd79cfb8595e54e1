// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline parses a blog outline into (header, body) sections and
// parses the topic line.
//
// A text outline is split two independent ways: every line starting with
// '#' is a header, and the whole text split on blank lines gives the
// bodies. For well-formed outlines (one header per blank-line-separated
// block) the two agree. Malformed outlines can desynchronize them;
// Aligned reports this and Sections pairs them positionally up to the
// shorter list.
package outline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bloggpt/pkg/types"
)

// Outline is the parsed form of an outline.
type Outline struct {
	Headers []string
	Bodies  []string
}

// Parse splits raw outline text into headers and bodies.
func Parse(text string) Outline {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var o Outline
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			o.Headers = append(o.Headers, strings.TrimSpace(strings.TrimLeft(line, "#")))
		}
	}
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		o.Bodies = append(o.Bodies, block)
	}
	return o
}

// Aligned reports whether there is exactly one body per header.
func (o Outline) Aligned() bool {
	return len(o.Headers) == len(o.Bodies)
}

// Sections pairs headers with bodies in order. When the counts differ the
// extra entries of the longer list are dropped.
func (o Outline) Sections() []types.OutlineSection {
	n := min(len(o.Headers), len(o.Bodies))
	out := make([]types.OutlineSection, n)
	for i := range n {
		out[i] = types.OutlineSection{Header: o.Headers[i], Body: o.Bodies[i]}
	}
	return out
}

// yamlOutline is the on-disk YAML form.
type yamlOutline struct {
	Topic    string                 `yaml:"topic"`
	Sections []types.OutlineSection `yaml:"sections"`
}

// File is an outline loaded from disk, with the topic when the file
// declares one.
type File struct {
	Topic   string
	Outline Outline
}

// LoadFile reads an outline from path. Files ending in .yaml or .yml are
// decoded as {topic, sections: [{header, body}]}; anything else is parsed
// as text with Parse.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading outline %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var y yamlOutline
		if err := yaml.Unmarshal(data, &y); err != nil {
			return File{}, fmt.Errorf("parsing outline %s: %w", path, err)
		}
		var o Outline
		for i, s := range y.Sections {
			header := strings.TrimSpace(s.Header)
			if header == "" {
				return File{}, fmt.Errorf("outline %s: section %d has no header", path, i)
			}
			body := s.Body
			if !strings.HasPrefix(strings.TrimSpace(body), "#") {
				body = "# " + header + "\n" + body
			}
			o.Headers = append(o.Headers, header)
			o.Bodies = append(o.Bodies, body)
		}
		return File{Topic: y.Topic, Outline: o}, nil
	default:
		return File{Outline: Parse(string(data))}, nil
	}
}

// ParseTopic returns the subject of a topic line: the text after the first
// colon, trimmed ("Topic: Falcon LLM" gives "Falcon LLM"). A line without a
// colon is returned trimmed.
func ParseTopic(s string) string {
	if _, after, ok := strings.Cut(s, ":"); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(s)
}

// TopicLine returns s in "Topic: X" form, leaving it unchanged when it
// already has a colon.
func TopicLine(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		return s
	}
	return "Topic: " + s
}
