package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docpipe/internal/content"
)

var parseCmd = &cobra.Command{
	Use:   "parse <content.md>",
	Short: "Show how a content document is segmented",
	Long: `Parse reads a Markdown content file and prints the sections the mapping
strategies would see: title, subtitle, numbered sections, body, date and
table of contents, as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading content: %w", err)
	}

	doc := content.Parse(string(raw))
	out, err := yaml.Marshal(doc.Sections)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
