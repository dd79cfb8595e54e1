// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llmtest provides deterministic llm.ChatModel and llm.Embedder
// implementations for tests.
package llmtest

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/pdiddy/bloggpt/internal/llm"
)

// Chat answers each Complete call with the next scripted reply, or calls
// Func when set. Every request is recorded.
type Chat struct {
	mu       sync.Mutex
	Replies  []Reply
	Func     func(req llm.Request) (llm.Response, error)
	Requests []llm.Request
}

// Reply is one scripted completion result.
type Reply struct {
	Response llm.Response
	Err      error
}

// Text returns a Reply whose content is s.
func Text(s string) Reply { return Reply{Response: llm.Response{Content: s}} }

// Fail returns a Reply that errors.
func Fail(err error) Reply { return Reply{Err: err} }

// Calls returns a Reply requesting the given tool calls.
func Calls(calls ...llm.ToolCall) Reply { return Reply{Response: llm.Response{ToolCalls: calls}} }

func (c *Chat) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, req)
	if c.Func != nil {
		return c.Func(req)
	}
	if len(c.Replies) == 0 {
		return llm.Response{}, fmt.Errorf("llmtest: no scripted reply for call %d", len(c.Requests))
	}
	r := c.Replies[0]
	c.Replies = c.Replies[1:]
	return r.Response, r.Err
}

// CallCount returns the number of Complete calls made so far.
func (c *Chat) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

// Embedder returns a unit vector derived from a hash of each text, so equal
// texts embed identically.
type Embedder struct {
	Dim     int
	mu      sync.Mutex
	Batches [][]string
}

func (e *Embedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.Batches = append(e.Batches, append([]string(nil), texts...))
	e.mu.Unlock()

	dim := e.Dim
	if dim <= 0 {
		dim = 8
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Vector(t, dim)
	}
	return out, nil
}

// Vector is the deterministic embedding Embedder produces for text.
func Vector(text string, dim int) []float32 {
	seed := []byte(text)
	if len(seed) == 0 {
		seed = []byte("empty")
	}
	vec := make([]float32, dim)
	var sum float64
	for i := range vec {
		h := sha256.Sum256(append(seed, byte(i%251)))
		v := float32(binary.BigEndian.Uint32(h[:4])%2000)/1000.0 - 1.0
		vec[i] = v
		sum += float64(v * v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
