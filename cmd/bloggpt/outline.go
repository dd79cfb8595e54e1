// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bloggpt/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline [file]",
	Short: "Show how an outline file splits into sections",
	Long: `Outline parses an outline file the way generate does and prints the
resulting (header, body) sections as YAML. It exits with an error when the
headers and the blank-line separated blocks do not line up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := outline.LoadFile(args[0])
		if err != nil {
			return err
		}

		doc := struct {
			Topic    string `yaml:"topic,omitempty"`
			Sections any    `yaml:"sections"`
		}{Topic: file.Topic, Sections: file.Outline.Sections()}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding outline: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}

		if o := file.Outline; !o.Aligned() {
			return fmt.Errorf("outline is misaligned: %d headers, %d sections", len(o.Headers), len(o.Bodies))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}
