// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm defines the chat-completion and embedding contracts used by
// every LLM-backed stage, and an OpenAI implementation of both.
package llm

import (
	"context"
	"errors"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON object
}

// Message is one turn of a conversation. Assistant messages may carry
// ToolCalls; tool messages answer the call named by ToolCallID.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// System, User and ToolResult build the common message kinds.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message   { return Message{Role: RoleUser, Content: content} }

func ToolResult(callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID}
}

// ToolSpec advertises a callable function to the model. Parameters is a
// JSON schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is a single chat completion call.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int // zero leaves the provider default
	Tools       []ToolSpec
}

// Response is the first choice of a completion.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatModel completes conversations.
type ChatModel interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Embedder maps texts to vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrEmptyResponse is returned when the provider answers with no choices.
var ErrEmptyResponse = errors.New("llm: empty response")

// Prompt sends a single user message and returns the reply text.
func Prompt(ctx context.Context, m ChatModel, model string, temperature float64, maxTokens int, prompt string) (string, error) {
	resp, err := m.Complete(ctx, Request{
		Model:       model,
		Messages:    []Message{User(prompt)},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
