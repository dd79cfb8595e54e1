// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bloggpt CLI.
//
// bloggpt researches a topic on the web and writes a multi-section blog
// post following an outline. Each pipeline stage is also exposed as its own
// subcommand for inspection: search, fetch, summarize, outline and combine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bloggpt/internal/logger"
	"github.com/pdiddy/bloggpt/internal/secrets"
	"github.com/pdiddy/bloggpt/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the bloggpt CLI.
var rootCmd = &cobra.Command{
	Use:   "bloggpt",
	Short: "Research a topic on the web and write a blog post about it",
	Long: `bloggpt drives a language model through web research to write a blog
post. Give it a topic and an outline; it drafts every section, combines the
drafts and rewrites them into the final post under the output directory.

Credentials come from the environment (OPENAI_API_KEY, GOOGLE_API_KEY,
GOOGLE_CSE_ID), a .env file, or one file per key in .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bloggpt.yaml or ~/.config/bloggpt/bloggpt.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "DEBUG, INFO, WARN or ERROR (default INFO)")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// envBindings maps config keys to the environment variables that set them,
// in addition to the BLOGGPT_ prefixed name.
var envBindings = map[string][]string{
	"log_level":        {"LOG_LEVEL"},
	"llm.api_key":      {"OPENAI_API_KEY"},
	"llm.base_url":     {"OPENAI_BASE_URL"},
	"search.api_key":   {"GOOGLE_API_KEY"},
	"search.engine_id": {"GOOGLE_CSE_ID"},
	"vector.dsn":       {"BLOGGPT_VECTOR_DSN"},
	"vector.backend":   {},
	"draft.variant":    {},
	"output.dir":       {},
}

func initConfig() {
	_ = godotenv.Load(".env")

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bloggpt")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bloggpt"))
		}
	}

	viper.SetEnvPrefix("BLOGGPT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, names := range envBindings {
		prefixed := "BLOGGPT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = viper.BindEnv(append([]string{key, prefixed}, names...)...)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig builds the run configuration: defaults, then the config file
// and environment through viper, then .secrets/ for credentials still empty.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Apply(&cfg, loadedSecrets)
	return cfg, nil
}

// newLogger returns the stderr logger at the configured level. Level tags
// are colored only when stderr is a color terminal.
func newLogger(cfg types.Config) (*logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logger.New(os.Stderr, level), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
