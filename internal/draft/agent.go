// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"context"
	"fmt"

	"github.com/pdiddy/bloggpt/internal/prompts"
)

// Runner executes an agent prompt. *agent.Agent satisfies it.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// AgentDrafter writes a section by letting an agent research it.
type AgentDrafter struct {
	Agent Runner
}

func (d *AgentDrafter) Draft(ctx context.Context, s Section) (string, error) {
	prompt, err := prompts.Render(prompts.SectionAgent, prompts.SectionAgentData{
		Topic:   s.TopicLine,
		Section: s.Body,
		Context: s.Context,
	})
	if err != nil {
		return "", err
	}

	text, err := d.Agent.Run(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("drafting %q: %w", s.Header, err)
	}
	return nonEmpty(text)
}
