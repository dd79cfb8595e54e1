// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
)

// SearchTool exposes Gatherer.Summaries to the agent as the "search" tool.
type SearchTool struct {
	Gatherer *Gatherer
	Results  int
}

func (t *SearchTool) Name() string { return "search" }

func (t *SearchTool) Description() string {
	return "Searches the web for the query and returns detailed summaries of the most relevant pages."
}

// Invoke returns the joined summaries for query. Partial results are
// returned without error; an error is reported only when nothing was found.
func (t *SearchTool) Invoke(ctx context.Context, query string) (string, error) {
	n := t.Results
	if n <= 0 {
		n = 4
	}
	summaries, err := t.Gatherer.Summaries(ctx, query, n)
	if len(summaries) == 0 {
		if err == nil {
			err = errors.New("no results found")
		}
		return "", err
	}
	if err != nil {
		t.Gatherer.Log.Warn("search tool returning %d of %d summaries: %v", len(summaries), n, err)
	}
	return Join(summaries), nil
}

// ContextSource produces the topic-wide context shared by every section.
type ContextSource struct {
	Gatherer *Gatherer
	Results  int
}

// TopicContext returns summaries gathered for the topic.
func (c *ContextSource) TopicContext(ctx context.Context, topic string) (string, error) {
	n := c.Results
	if n <= 0 {
		n = 4
	}
	summaries, err := c.Gatherer.Summaries(ctx, topic, n)
	if err != nil && len(summaries) == 0 {
		return "", err
	}
	if err != nil {
		c.Gatherer.Log.Warn("topic context has %d of %d summaries: %v", len(summaries), n, err)
	}
	return Join(summaries), nil
}
