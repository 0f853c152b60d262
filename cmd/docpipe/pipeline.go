package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docpipe/internal/mapper"
	"github.com/pdiddy/docpipe/internal/pipeline"
	"github.com/pdiddy/docpipe/pkg/types"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <content.md>",
	Short: "Convert a Markdown file into a populated DOCX document",
	Long: `Pipeline runs the full conversion: extract placeholders from the template,
parse the content file, map placeholders to content sections, and write
the populated document.

Mapping uses fixed rules (TITLE to the first heading, SECTION_N to the
Nth section, and so on) unless --llm is given, in which case a single
request to an OpenAI-compatible completion server decides the assignment.
With --batch the argument is a directory and every .md file in it is
converted against the same template.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	pat, err := patternFromFlags(cmd)
	if err != nil {
		return err
	}

	templatePath, _ := cmd.Flags().GetString("template")
	if templatePath == "" {
		return fmt.Errorf("template required: pass --template <file.docx>")
	}
	outputPath, _ := cmd.Flags().GetString("output")
	useLLM, _ := cmd.Flags().GetBool("llm")
	batch, _ := cmd.Flags().GetBool("batch")

	opts := pipeline.Options{
		TemplatePath: templatePath,
		UseLLM:       useLLM,
		Pattern:      pat,
		LLM:          llmConfigFromFlags(cmd),
	}

	err = runConversion(cmd, opts, args[0], outputPath, batch)
	var svcErr *mapper.ServiceUnavailableError
	if errors.As(err, &svcErr) {
		fmt.Fprintln(os.Stderr, "hint: the completion server is unreachable; rerun without --llm to use rule-based mapping")
	}
	return err
}

func runConversion(cmd *cobra.Command, opts pipeline.Options, contentArg, outputPath string, batch bool) error {
	ctx := context.Background()

	if batch {
		if outputPath == "" {
			outputPath = "out"
		}
		summary, err := pipeline.RunBatch(ctx, opts, contentArg, outputPath, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d of %d file(s) failed", len(summary.Failed), summary.Total())
		}
		return nil
	}

	if outputPath == "" {
		outputPath = "output.docx"
	}
	opts.ContentPath = contentArg
	opts.OutputPath = outputPath
	return pipeline.Run(ctx, opts, os.Stdout)
}

// llmConfigFromFlags assembles the LLM settings from flags, config file and
// secrets, in that order of precedence.
func llmConfigFromFlags(cmd *cobra.Command) types.LLMConfig {
	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKey = secretDefault("vllm-api-key", apiKey)
	if apiKey == "" {
		// vLLM servers conventionally accept a literal placeholder key.
		apiKey = "EMPTY"
	}

	return types.LLMConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("llm.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		BaseURL:     stringFlagOrConfig(cmd, "vllm-url", "llm.base_url"),
		Model:       stringFlagOrConfig(cmd, "model", "llm.model"),
		APIKey:      apiKey,
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Temperature: viper.GetFloat64("llm.temperature"),
	}
}

// stringFlagOrConfig prefers an explicitly set flag over the viper key.
func stringFlagOrConfig(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

func init() {
	pipelineCmd.Flags().StringP("template", "t", "", "DOCX template file (required)")
	pipelineCmd.Flags().StringP("output", "o", "", "output path (default output.docx, or out/ with --batch)")
	pipelineCmd.Flags().Bool("llm", false, "map placeholders with an LLM instead of fixed rules")
	pipelineCmd.Flags().String("vllm-url", "", "completion server base URL")
	pipelineCmd.Flags().String("model", "", "completion model identifier")
	pipelineCmd.Flags().String("api-key", "", "completion API key (default: .secrets/vllm-api-key)")
	pipelineCmd.Flags().String("pattern", "", "placeholder delimiter style: default, bracket, angle, or underscore")
	pipelineCmd.Flags().Bool("batch", false, "treat the argument as a directory of .md files")

	rootCmd.AddCommand(pipelineCmd)
}
