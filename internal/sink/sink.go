// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink delivers user-facing progress from the pipeline to whatever
// is presenting it: a terminal, a test recorder, or an external UI adapter.
package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Style tells the presenter how a message should be shown.
type Style int

const (
	Plain Style = iota
	Info
	Success
	Alert
	Markdown
)

func (s Style) String() string {
	switch s {
	case Plain:
		return "plain"
	case Info:
		return "info"
	case Success:
		return "success"
	case Alert:
		return "alert"
	case Markdown:
		return "markdown"
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Sink receives progress messages.
type Sink interface {
	Emit(text string, style Style)
}

// Discard drops every message.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(string, Style) {}

var terminalStyles = map[Style]lipgloss.Style{
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	Alert:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// Writer renders messages to an io.Writer, one message per line. Styled
// messages are colored when Color is set; Markdown is written verbatim
// followed by a blank line.
type Writer struct {
	mu    sync.Mutex
	W     io.Writer
	Color bool
}

// NewWriter returns a Writer sink for w.
func NewWriter(w io.Writer, color bool) *Writer {
	return &Writer{W: w, Color: color}
}

func (s *Writer) Emit(text string, style Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if style == Markdown {
		fmt.Fprintf(s.W, "%s\n\n", text)
		return
	}
	if st, ok := terminalStyles[style]; ok && s.Color {
		text = st.Render(text)
	}
	fmt.Fprintln(s.W, text)
}

// Message is one recorded emission.
type Message struct {
	Text  string
	Style Style
}

// Recorder keeps every message in order. Tests use it to assert on what a
// run reported.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Emit(text string, style Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Text: text, Style: style})
}

// WithStyle returns the texts emitted with the given style.
func (r *Recorder) WithStyle(style Style) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		if m.Style == style {
			out = append(out, m.Text)
		}
	}
	return out
}
