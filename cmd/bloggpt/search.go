// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bloggpt/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "List the result URLs of a web search",
	Long: `Search runs one page of a Google Custom Search query and prints the
result URLs in rank order. Requires GOOGLE_API_KEY and GOOGLE_CSE_ID.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("start", 1, "1-based index of the first result")
	searchCmd.Flags().Int("num", search.MaxPageSize, "number of results (at most 10)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	st, err := newStage()
	if err != nil {
		return err
	}
	start, _ := cmd.Flags().GetInt("start")
	num, _ := cmd.Flags().GetInt("num")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := st.searcher(cmd.Context())
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	urls, err := s.Search(cmd.Context(), query, start, num)
	if err != nil {
		if search.IsQuotaExceeded(err) {
			return fmt.Errorf("search quota exceeded: %w", err)
		}
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(urls)
	}
	if len(urls) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, u := range urls {
		fmt.Printf("%2d. %s\n", start+i, u)
	}
	return nil
}
