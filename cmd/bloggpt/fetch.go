// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Print the cleaned text of a web page or PDF",
	Long: `Fetch downloads a URL and prints the text the pipeline would feed to the
model: HTML is decoded and stripped of markup, PDFs are extracted page by
page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStage()
		if err != nil {
			return err
		}
		text, ok := st.fetcher().Fetch(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("no content retrieved from %s", args[0])
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
