package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subgen/internal/config"
	"subgen/internal/subtitles"
)

var errBatchFailures = errors.New("one or more files failed")

type runFlags struct {
	input        string
	output       string
	granularity  string
	failFast     bool
	skipExisting bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe every media file in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg, flags); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			p, err := buildPipeline(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			summary, runErr := p.runner.Run(cmd.Context())
			out := cmd.OutOrStdout()
			if len(summary.Results) > 0 {
				fmt.Fprintln(out, renderSummary(summary))
			}
			fmt.Fprintf(out, "Succeeded: %d  Failed: %d  Skipped: %d\n", summary.Succeeded, summary.Failed, summary.Skipped)
			if runErr != nil {
				return runErr
			}
			if summary.HasFailures() {
				return errBatchFailures
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input directory (overrides paths.input_dir)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (overrides paths.output_dir)")
	cmd.Flags().StringVarP(&flags.granularity, "granularity", "g", "", "Subtitle granularity: segment or word")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Stop the batch at the first failed file")
	cmd.Flags().BoolVar(&flags.skipExisting, "skip-existing", false, "Skip inputs whose subtitle file already exists")
	return cmd
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	if path, err := expandFlagPath(flags.input); err != nil {
		return fmt.Errorf("--input: %w", err)
	} else if path != "" {
		cfg.Paths.InputDir = path
	}
	if path, err := expandFlagPath(flags.output); err != nil {
		return fmt.Errorf("--output: %w", err)
	} else if path != "" {
		cfg.Paths.OutputDir = path
	}
	if value := strings.TrimSpace(flags.granularity); value != "" {
		granularity, err := subtitles.ParseGranularity(value)
		if err != nil {
			return fmt.Errorf("--granularity: %w", err)
		}
		cfg.Transcription.Granularity = granularity.String()
	}
	if cmd.Flags().Changed("fail-fast") {
		cfg.Batch.FailFast = flags.failFast
	}
	if cmd.Flags().Changed("skip-existing") {
		cfg.Batch.SkipExisting = flags.skipExisting
	}
	return nil
}
