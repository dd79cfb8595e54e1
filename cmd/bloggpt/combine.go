// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bloggpt/internal/draft"
	"github.com/pdiddy/bloggpt/internal/outline"
	"github.com/pdiddy/bloggpt/internal/output"
	"github.com/pdiddy/bloggpt/internal/rewrite"
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Combine the section drafts on disk, optionally rewriting them",
	Long: `Combine joins every draft_<n>.md in the output directory in section
order into complete_draft.md. When manifest.yaml is present only the
sections it records as drafted are used. With --rewrite it also runs the final rewrite
and writes the post, which lets a run be finished after editing drafts by
hand.`,
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().String("output-dir", "", "directory holding the drafts (default from config)")
	combineCmd.Flags().Bool("rewrite", false, "rewrite the combined draft into the final post")
	combineCmd.Flags().String("topic", "", "blog topic for the rewrite")

	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	st, err := newStage()
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, &st.cfg)

	out, err := output.New(st.cfg.Output.Dir)
	if err != nil {
		return err
	}
	drafts, err := currentDrafts(out)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return fmt.Errorf("no drafts found in %s", out.Path)
	}

	combined := draft.Combine(drafts)
	path, err := out.Write(output.CombinedFile, combined)
	if err != nil {
		return err
	}
	fmt.Printf("Combined %d drafts into %s\n", len(drafts), path)

	if doRewrite, _ := cmd.Flags().GetBool("rewrite"); !doRewrite {
		return nil
	}
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		return fmt.Errorf("--topic is required with --rewrite")
	}
	chat, err := st.model()
	if err != nil {
		return err
	}
	final, err := rewrite.New(chat, st.cfg.LLM.RewriteModel).Rewrite(cmd.Context(), outline.TopicLine(topic), combined)
	if err != nil {
		return err
	}
	if path, err = out.Write(st.cfg.Output.FinalFile, final); err != nil {
		return err
	}
	fmt.Printf("Final post written to %s\n", path)
	return nil
}

// currentDrafts loads the drafts in out, limited to the sections the last
// run's manifest records as drafted. Without a manifest every draft is used.
func currentDrafts(out *output.Dir) (map[int]string, error) {
	drafts, err := draft.LoadDrafts(out.Path)
	if err != nil {
		return nil, err
	}
	m, err := out.ReadManifest()
	if errors.Is(err, fs.ErrNotExist) {
		return drafts, nil
	}
	if err != nil {
		return nil, err
	}
	return draft.FilterDrafted(drafts, m), nil
}
