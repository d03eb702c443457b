package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"buildstatus/internal/frontend"
	"buildstatus/internal/logging"
	"buildstatus/internal/status"
)

func newFrontendCommand(ctx *commandContext) *cobra.Command {
	var recordFlag bool

	cmd := &cobra.Command{
		Use:   "frontend [STREAM]",
		Short: "Print build progress from a status stream",
		Long: "Read a binary status stream (stdin by default) and print ninja-style\n" +
			"progress. Point the build tool's frontend command at 'buildstatus frontend'.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.contextLogger(cmd)
			if err != nil {
				return err
			}

			in, closeIn, err := streamInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()

			printer := status.NewPrinter(cfg.BuildConfig(), cfg.Status.Format, status.NewLinePrinter(cmd.OutOrStdout()))
			var handler frontend.Handler = frontend.NewNativeHandler(printer)

			if cfg.History.Enabled || recordFlag {
				store, err := ctx.openHistory(cmd.Context())
				if err != nil {
					return err
				}
				defer store.Close()
				handler = frontend.Tee(handler, frontend.NewRecordingHandler(store, ctx.sessionID, logger))
			}

			logger.Debug("frontend reading status stream",
				logging.String("format", cfg.Status.Format),
				logging.Bool("history", cfg.History.Enabled || recordFlag),
			)
			if err := frontend.New(in, handler, nil).Run(cmd.Context()); err != nil {
				if errors.Is(err, frontend.ErrUnknownEdge) {
					return fmt.Errorf("status stream out of order: %w", err)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recordFlag, "record", false, "Record finished edges in the history database")
	return cmd
}
