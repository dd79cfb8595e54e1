// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, google-api-key, google-cse-id, vector-dsn.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/bloggpt/pkg/types"
)

// Key file names recognised by Apply.
const (
	OpenAIKey    = "openai-api-key"
	GoogleAPIKey = "google-api-key"
	GoogleCSEID  = "google-cse-id"
	VectorDSN    = "vector-dsn"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files produce a warning on warn but do not abort.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	found := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if warn != nil {
				fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			}
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			found[name] = value
		}
	}

	return found, nil
}

// Apply copies known secrets into cfg. Values already set in cfg (from the
// config file or the environment) take precedence.
func Apply(cfg *types.Config, s map[string]string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = s[key]
		}
	}
	fill(&cfg.LLM.APIKey, OpenAIKey)
	fill(&cfg.Search.APIKey, GoogleAPIKey)
	fill(&cfg.Search.EngineID, GoogleCSEID)
	fill(&cfg.Vector.DSN, VectorDSN)
}
