package main

import (
	"strings"

	"github.com/spf13/cobra"

	"buildstatus/internal/build"
	"buildstatus/internal/logging"
	"buildstatus/internal/status"
	"buildstatus/internal/trace"
)

func newReplayCommand(ctx *commandContext) *cobra.Command {
	var frontendFlag string

	cmd := &cobra.Command{
		Use:   "replay TRACE",
		Short: "Replay a YAML build trace through the status layer",
		Long: "Replay a recorded build. Without a frontend the progress lines are\n" +
			"printed directly; with one the binary status stream is piped to it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.contextLogger(cmd)
			if err != nil {
				return err
			}
			tr, err := trace.Load(args[0])
			if err != nil {
				return err
			}

			buildCfg := tr.Config()
			if buildCfg.Verbosity == build.Normal {
				buildCfg.Verbosity = cfg.BuildConfig().Verbosity
			}
			buildCfg.Frontend = strings.TrimSpace(frontendFlag)
			if buildCfg.Frontend == "" {
				buildCfg.Frontend = cfg.Status.Frontend
			}

			logger.Debug("replaying trace",
				logging.String("trace", args[0]),
				logging.Int("edges", len(tr.Edges)),
				logging.String("frontend", buildCfg.Frontend),
			)

			if buildCfg.Frontend == "" {
				printer := status.NewPrinter(buildCfg, cfg.Status.Format, status.NewLinePrinter(cmd.OutOrStdout()))
				trace.Replay(tr, printer)
				return nil
			}

			stream, err := status.NewStream(cmd.Context(), buildCfg, nil)
			if err != nil {
				return err
			}
			trace.Replay(tr, stream)
			return stream.Close()
		},
	}

	cmd.Flags().StringVar(&frontendFlag, "frontend", "", "Shell command that receives the status stream (overrides status.frontend)")
	return cmd
}
