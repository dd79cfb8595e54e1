// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent runs a tool-using chat loop: the model may call tools for a
// bounded number of iterations before it must answer.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/bloggpt/internal/llm"
	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/internal/sink"
)

// DefaultMaxIterations bounds the tool loop when MaxIterations is unset.
const DefaultMaxIterations = 4

// ErrNoAnswer is returned when the model ends the run without any text.
var ErrNoAnswer = errors.New("agent: model returned no answer")

// kickoff follows the system prompt as the user turn that starts the run.
const kickoff = "Write the section now. Search first if you need more information."

// finalInstruction is appended when the iteration budget is spent.
const finalInstruction = "You have used all of your research steps. Using only the information gathered so far, write the final answer now."

// Tool is a capability the model can invoke with a single query string.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, query string) (string, error)
}

// Agent drives the model through reasoning and tool calls.
type Agent struct {
	Chat          llm.ChatModel
	Model         string
	Temperature   float64
	MaxIterations int
	Tools         []Tool
	Sink          sink.Sink
	Log           *logger.Logger
}

type toolArgs struct {
	Query string `json:"query"`
}

var queryParameters = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"query": map[string]any{
			"type":        "string",
			"description": "The text to pass to the tool.",
		},
	},
	"required": []string{"query"},
}

// Run sends prompt as the system message and lets the model call tools
// until it answers. When the
// model is still calling tools after MaxIterations rounds, one last call is
// made with no tools offered, which forces a written answer.
func (a *Agent) Run(ctx context.Context, prompt string) (string, error) {
	maxIter := a.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	specs := make([]llm.ToolSpec, 0, len(a.Tools))
	byName := make(map[string]Tool, len(a.Tools))
	for _, t := range a.Tools {
		specs = append(specs, llm.ToolSpec{Name: t.Name(), Description: t.Description(), Parameters: queryParameters})
		byName[t.Name()] = t
	}

	messages := []llm.Message{llm.System(prompt), llm.User(kickoff)}
	for i := 0; i < maxIter; i++ {
		resp, err := a.Chat.Complete(ctx, llm.Request{
			Model:       a.Model,
			Messages:    messages,
			Temperature: a.Temperature,
			Tools:       specs,
		})
		if err != nil {
			return "", fmt.Errorf("agent step %d: %w", i+1, err)
		}
		if len(resp.ToolCalls) == 0 {
			return answer(resp.Content)
		}

		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: resp.Content, ToolCalls: resp.ToolCalls})
		for _, call := range resp.ToolCalls {
			messages = append(messages, llm.ToolResult(call.ID, a.invoke(ctx, byName, call)))
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	a.Log.Info("agent reached %d iterations, forcing a final answer", maxIter)
	messages = append(messages, llm.User(finalInstruction))
	resp, err := a.Chat.Complete(ctx, llm.Request{
		Model:       a.Model,
		Messages:    messages,
		Temperature: a.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("agent final answer: %w", err)
	}
	return answer(resp.Content)
}

// invoke runs one tool call and returns the observation fed back to the
// model. Tool failures become observations rather than errors so the model
// can change course.
func (a *Agent) invoke(ctx context.Context, tools map[string]Tool, call llm.ToolCall) string {
	tool, ok := tools[call.Name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q.", call.Name)
	}

	var args toolArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil || strings.TrimSpace(args.Query) == "" {
		return "Error: the tool expects a JSON object with a non-empty \"query\" string."
	}

	if a.Sink != nil {
		a.Sink.Emit(fmt.Sprintf("Action: %s(%q)", call.Name, args.Query), sink.Info)
	}
	a.Log.Debug("tool %s query %q", call.Name, args.Query)

	out, err := tool.Invoke(ctx, args.Query)
	if err != nil {
		a.Log.Warn("tool %s failed: %v", call.Name, err)
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

func answer(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrNoAnswer
	}
	return content, nil
}
