// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes a run's artifacts into the output directory. Every
// file is written atomically and overwritten on each run.
package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bloggpt/pkg/types"
)

// Artifact file names.
const (
	CombinedFile    = "complete_draft.md"
	SearchTextsFile = "web_search_texts.txt"
	ManifestFile    = "manifest.yaml"
)

// Dir is the artifact directory of a run.
type Dir struct {
	Path string
}

// New ensures path exists and returns it as a Dir.
func New(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", path, err)
	}
	return &Dir{Path: path}, nil
}

// File returns the path of name inside the directory.
func (d *Dir) File(name string) string {
	return filepath.Join(d.Path, name)
}

// DraftName is the file name of the draft for section n.
func DraftName(n int) string { return fmt.Sprintf("draft_%d.md", n) }

// RetrievedDocsName is the file name of the passages retrieved for section n.
func RetrievedDocsName(n int) string { return fmt.Sprintf("retrieved_docs_%d.txt", n) }

// Write stores content under name and returns the full path.
func (d *Dir) Write(name, content string) (string, error) {
	path := d.File(name)
	if err := WriteAtomic(path, []byte(content)); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRetrievedDocs stores one passage per line for section n.
func (d *Dir) WriteRetrievedDocs(n int, docs []types.RetrievedDocument) (string, error) {
	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.Text)
		sb.WriteByte('\n')
	}
	return d.Write(RetrievedDocsName(n), sb.String())
}

// WriteHTML renders markdown to HTML and stores it under name.
func (d *Dir) WriteHTML(name, markdown string) (string, error) {
	html, err := RenderHTML(markdown)
	if err != nil {
		return "", err
	}
	return d.Write(name, html)
}

// WriteManifest stores m as YAML.
func (d *Dir) WriteManifest(m types.RunManifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}
	return d.Write(ManifestFile, string(data))
}

// ReadManifest loads the manifest left by the last run.
func (d *Dir) ReadManifest() (types.RunManifest, error) {
	var m types.RunManifest
	data, err := os.ReadFile(d.File(ManifestFile))
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// RenderHTML converts markdown to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.String(), nil
}

// WriteAtomic writes data to a temp file in the target directory and
// renames it over path.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
