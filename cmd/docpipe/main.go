// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docpipe CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docpipe/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the docpipe CLI.
var rootCmd = &cobra.Command{
	Use:   "docpipe",
	Short: "Fill DOCX templates with Markdown content",
	Long: `docpipe converts Markdown content into populated DOCX documents by mapping
content sections onto named placeholders found in a template.

Use analyze to list a template's placeholders, parse to inspect how a
content document is segmented, and pipeline to run the full conversion.
Mapping is rule-based by default; pass --llm to delegate placeholder
assignment to an OpenAI-compatible completion server such as vLLM.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docpipe.yaml or ~/.config/docpipe/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docpipe")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docpipe"))
		}
	}

	viper.SetDefault("pattern", "default")
	viper.SetDefault("llm.base_url", "http://localhost:8000/v1")
	viper.SetDefault("llm.model", "Qwen/Qwen2.5-7B-Instruct")
	viper.SetDefault("llm.timeout", "120s")
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("http.user_agent", "docpipe/0.1")

	viper.SetEnvPrefix("DOCPIPE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
