package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpipe/internal/pipeline"
	"github.com/pdiddy/docpipe/internal/placeholder"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <template.docx>",
	Short: "List the placeholders a template contains",
	Long: `Analyze scans a DOCX template's text, headers and footers included, and
prints the distinct placeholder names as a JSON array in order of first
appearance. A name that occurs several times is printed once.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	pat, err := patternFromFlags(cmd)
	if err != nil {
		return err
	}

	names, err := pipeline.Analyze(args[0], pat)
	if err != nil {
		return err
	}

	out, err := json.Marshal(names)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

// patternFromFlags resolves the delimiter pattern from the --pattern flag,
// falling back to the configured default.
func patternFromFlags(cmd *cobra.Command) (placeholder.Pattern, error) {
	name := stringFlagOrConfig(cmd, "pattern", "pattern")
	pat := placeholder.Pattern(name)
	if !pat.Valid() {
		return "", fmt.Errorf("unknown placeholder pattern %q: use default, bracket, angle, or underscore", name)
	}
	return pat, nil
}

func init() {
	analyzeCmd.Flags().String("pattern", "", "placeholder delimiter style: default, bracket, angle, or underscore")

	rootCmd.AddCommand(analyzeCmd)
}
