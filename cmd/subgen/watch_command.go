package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"subgen/internal/logging"
	"subgen/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags
	var quiet time.Duration
	var skipInitial bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process the input directory, then keep transcribing files as they arrive",
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

			if !skipInitial {
				if _, err := p.runner.Run(cmd.Context()); err != nil {
					return err
				}
			}

			release, err := p.runner.Lock()
			if err != nil {
				return err
			}
			defer release()

			w := watch.New(cfg.Paths.InputDir, p.runner.Options().Accepts, func(runCtx context.Context, path string) {
				result := p.runner.Process(runCtx, p.runner.NewJob(path))
				if result.Err != nil {
					logger.Debug("watched file failed", logging.String("file", path), logging.Error(result.Err))
				}
			}, logger)
			w.SetQuietPeriod(quiet)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input directory (overrides paths.input_dir)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (overrides paths.output_dir)")
	cmd.Flags().StringVarP(&flags.granularity, "granularity", "g", "", "Subtitle granularity: segment or word")
	cmd.Flags().BoolVar(&flags.skipExisting, "skip-existing", false, "Skip inputs whose subtitle file already exists")
	cmd.Flags().DurationVar(&quiet, "quiet-period", watch.DefaultQuietPeriod, "How long a file must stay unchanged before it is processed")
	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "Do not process files already in the input directory")
	return cmd
}
