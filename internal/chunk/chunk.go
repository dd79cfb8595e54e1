// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits text into overlapping token windows for embedding.
// Tokens are cl100k_base BPE tokens, the encoding of the embedding models.
package chunk

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// Encoding is the tokenizer used to measure windows.
const Encoding = "cl100k_base"

var loaderOnce sync.Once

// TokenSplitter cuts text into windows of Size tokens where consecutive
// windows share Overlap tokens.
type TokenSplitter struct {
	enc     *tiktoken.Tiktoken
	Size    int
	Overlap int
}

// NewTokenSplitter loads the encoding from the embedded BPE ranks, so no
// network access is needed.
func NewTokenSplitter(size, overlap int) (*TokenSplitter, error) {
	loaderOnce.Do(func() { tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader()) })
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", Encoding, err)
	}
	return &TokenSplitter{enc: enc, Size: size, Overlap: overlap}, nil
}

// Count returns the number of tokens in text.
func (s *TokenSplitter) Count(text string) int {
	return len(s.enc.EncodeOrdinary(text))
}

// Split returns the token windows of text. Special-token markers in text are
// encoded as ordinary text. A window boundary may fall inside a multi-byte
// character; the partial bytes are dropped.
func (s *TokenSplitter) Split(text string) []string {
	ids := s.enc.EncodeOrdinary(text)
	var out []string
	for _, w := range Windows(len(ids), s.Size, s.Overlap) {
		piece := strings.TrimSpace(strings.ToValidUTF8(s.enc.Decode(ids[w[0]:w[1]]), ""))
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// Windows returns the [start, end) bounds of windows over n tokens. A size of
// zero or less yields none; an overlap outside [0, size) is treated as 0. The
// last window ends at n.
func Windows(n, size, overlap int) [][2]int {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	step := size - overlap
	var out [][2]int
	for start := 0; start < n; start += step {
		end := min(start+size, n)
		out = append(out, [2]int{start, end})
		if end == n {
			break
		}
	}
	return out
}

// Batches groups items into consecutive slices of at most n.
func Batches(items []string, n int) [][]string {
	if n <= 0 {
		n = len(items)
	}
	var out [][]string
	for len(items) > 0 {
		k := min(n, len(items))
		out = append(out, items[:k])
		items = items[k:]
	}
	return out
}
