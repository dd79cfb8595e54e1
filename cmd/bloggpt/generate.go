// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bloggpt/internal/agent"
	"github.com/pdiddy/bloggpt/internal/draft"
	"github.com/pdiddy/bloggpt/internal/outline"
	"github.com/pdiddy/bloggpt/internal/output"
	"github.com/pdiddy/bloggpt/internal/pipeline"
	"github.com/pdiddy/bloggpt/internal/research"
	"github.com/pdiddy/bloggpt/internal/rewrite"
	"github.com/pdiddy/bloggpt/internal/sink"
	"github.com/pdiddy/bloggpt/internal/vectorstore"
	"github.com/pdiddy/bloggpt/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a blog post from a topic and an outline",
	Long: `Generate researches the topic, drafts every outline section, combines the
drafts and rewrites them into the final post.

The outline is a text file where each section is a '#' header line followed
by a description, sections separated by a blank line, or a YAML file with
{topic, sections: [{header, body}]}. Artifacts are written to the output
directory and overwritten on every run.

The agent variant researches each section with a web search tool. The
retrieval variant indexes fetched pages in a vector store and writes each
section from the passages most similar to the topic.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", `blog topic, e.g. "Topic: Falcon LLM" (overrides the outline file's topic)`)
	generateCmd.Flags().String("outline", "", "path to the outline file (text or YAML)")
	generateCmd.Flags().String("variant", "", "section drafter: agent or retrieval (default from config)")
	generateCmd.Flags().String("output-dir", "", "directory for artifacts (default from config)")
	generateCmd.Flags().Bool("html", false, "also render the final post to HTML")
	generateCmd.Flags().Bool("no-context", false, "skip the topic-wide research step")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := newStage()
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, &st.cfg)

	outlinePath, _ := cmd.Flags().GetString("outline")
	if outlinePath == "" {
		return fmt.Errorf("--outline is required")
	}
	file, err := outline.LoadFile(outlinePath)
	if err != nil {
		return err
	}
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		topic = file.Topic
	}
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("a topic is required: pass --topic or set topic in the outline file")
	}

	chat, err := st.model()
	if err != nil {
		return err
	}
	g, err := st.gatherer(ctx, chat)
	if err != nil {
		return err
	}
	out, err := output.New(st.cfg.Output.Dir)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Rewriter:  rewrite.New(chat, st.cfg.LLM.RewriteModel),
		Out:       out,
		Sink:      st.sink,
		Log:       st.log,
		Variant:   st.cfg.Draft.Variant,
		FinalFile: st.cfg.Output.FinalFile,
		HTML:      st.cfg.Output.HTML,
	}

	switch st.cfg.Draft.Variant {
	case types.VariantAgent:
		p.Drafter = &draft.AgentDrafter{Agent: &agent.Agent{
			Chat:          chat,
			Model:         st.cfg.LLM.DraftModel,
			MaxIterations: st.cfg.Draft.MaxIterations,
			Tools:         []agent.Tool{&research.SearchTool{Gatherer: g, Results: st.cfg.Draft.ContextResults}},
			Sink:          st.sink,
			Log:           st.log,
		}}
		if noContext, _ := cmd.Flags().GetBool("no-context"); !noContext {
			p.Context = &research.ContextSource{Gatherer: g, Results: st.cfg.Draft.ContextResults}
		}
	case types.VariantRetrieval:
		store, err := openStore(ctx, st)
		if err != nil {
			return err
		}
		defer store.Close()
		p.Drafter = &draft.RetrievalDrafter{
			Extract:  g,
			Embedder: chat,
			Store:    store,
			Chat:     chat,
			Model:    st.cfg.LLM.DraftModel,
			Out:      out,
			Config:   st.cfg.Draft,
			Log:      st.log,
		}
	default:
		return fmt.Errorf("unknown variant %q: use %s or %s", st.cfg.Draft.Variant, types.VariantAgent, types.VariantRetrieval)
	}

	m, err := p.Run(ctx, topic, file.Outline)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Run %s: %d of %d sections drafted, final post at %s\n",
		m.RunID, m.Drafted(), len(m.Sections), m.Final)
	return nil
}

// applyGenerateFlags overrides configuration with flags the user set.
func applyGenerateFlags(cmd *cobra.Command, cfg *types.Config) {
	if v, _ := cmd.Flags().GetString("variant"); v != "" {
		cfg.Draft.Variant = types.DraftVariant(v)
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.Output.Dir = v
	}
	if cmd.Flags().Changed("html") {
		cfg.Output.HTML, _ = cmd.Flags().GetBool("html")
	}
}

// openStore opens and resets the vector index for a retrieval run.
func openStore(ctx context.Context, st *stage) (vectorstore.Store, error) {
	store, err := vectorstore.Open(ctx, st.cfg.Vector, st.log)
	if err != nil {
		return nil, err
	}
	st.sink.Emit(fmt.Sprintf("Preparing vector index %q", st.cfg.Vector.Index), sink.Info)
	if err := store.Provision(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
