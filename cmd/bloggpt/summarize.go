// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [url]",
	Short: "Summarize a web page or a local text file",
	Long: `Summarize fetches a URL (or reads --file) and prints the summary the
search tool would return for it. Texts longer than the configured word cap
are truncated first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("file", "", "summarize a local text file instead of a URL")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	if (path == "") == (len(args) == 0) {
		return fmt.Errorf("provide either a URL or --file")
	}

	st, err := newStage()
	if err != nil {
		return err
	}
	chat, err := st.model()
	if err != nil {
		return err
	}

	var text string
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		text = string(data)
	} else {
		var ok bool
		if text, ok = st.fetcher().Fetch(cmd.Context(), args[0]); !ok {
			return fmt.Errorf("no content retrieved from %s", args[0])
		}
	}

	summary, ok := st.summarizer(chat).Summarize(cmd.Context(), text)
	if !ok {
		return fmt.Errorf("summarization failed")
	}
	fmt.Println(summary)
	return nil
}
