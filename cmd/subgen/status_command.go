package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subgen/internal/config"
	"subgen/internal/language"
	"subgen/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, external tools, and directory health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines, configLines(cfg, ctx.configPath, ctx.configSeen)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cfg), colorize)...)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			lines = append(lines, preflightLines(preflight.RunAll(cmd.Context(), cfg), colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func configLines(cfg *config.Config, path string, exists bool) []string {
	source := path
	if !exists {
		source = path + " (not found, using defaults)"
	}
	model := cfg.Transcription.ModelSize
	if cfg.Transcription.Backend == config.BackendOpenAI {
		model = cfg.Transcription.OpenAIModel
	}
	return []string{
		renderInfoLine("Config", source),
		renderInfoLine("Input", cfg.Paths.InputDir),
		renderInfoLine("Output", cfg.Paths.OutputDir),
		renderInfoLine("Backend", cfg.Transcription.Backend),
		renderInfoLine("Model", model),
		renderInfoLine("Device", cfg.Transcription.Device),
		renderInfoLine("Language", language.DisplayName(cfg.Transcription.Language)),
		renderInfoLine("Granularity", cfg.Transcription.Granularity),
		renderInfoLine("Extensions", strings.Join(cfg.Batch.InputExtensions, " ")),
	}
}
