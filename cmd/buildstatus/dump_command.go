package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"buildstatus/internal/frontend"
	"buildstatus/internal/protocol"
)

// dumpRow is one decoded message as shown by dump.
type dumpRow struct {
	Seq    int     `json:"seq"`
	Kind   string  `json:"kind"`
	EdgeID *uint64 `json:"edge_id,omitempty"`
	Millis *uint64 `json:"time_ms,omitempty"`
	Detail string  `json:"detail"`
	Failed bool    `json:"failed,omitempty"`
}

// dumpHandler collects every message of a stream as rows.
type dumpHandler struct {
	rows []dumpRow
}

func (h *dumpHandler) add(kind protocol.Kind, edge, millis *uint64, detail string, failed bool) {
	h.rows = append(h.rows, dumpRow{
		Seq:    len(h.rows) + 1,
		Kind:   kind.String(),
		EdgeID: edge,
		Millis: millis,
		Detail: detail,
		Failed: failed,
	})
}

func (h *dumpHandler) TotalEdges(_ context.Context, msg protocol.TotalEdges) error {
	h.add(msg.Kind(), nil, nil, "total="+strconv.FormatUint(msg.Total, 10), false)
	return nil
}

func (h *dumpHandler) BuildStarted(_ context.Context, msg protocol.BuildStarted) error {
	h.add(msg.Kind(), nil, nil, fmt.Sprintf("parallelism=%d verbose=%t", msg.Parallelism, msg.Verbose), false)
	return nil
}

func (h *dumpHandler) BuildFinished(_ context.Context, msg protocol.BuildFinished) error {
	h.add(msg.Kind(), nil, nil, "", false)
	return nil
}

func (h *dumpHandler) EdgeStarted(_ context.Context, msg protocol.EdgeStarted) error {
	id, at := msg.ID, msg.StartMillis
	detail := msg.Description
	if detail == "" {
		detail = msg.Command
	}
	if msg.UseConsole {
		detail += " (console)"
	}
	h.add(msg.Kind(), &id, &at, detail, false)
	return nil
}

func (h *dumpHandler) EdgeFinished(_ context.Context, started protocol.EdgeStarted, msg protocol.EdgeFinished) error {
	id, at := msg.ID, msg.EndMillis
	detail := fmt.Sprintf("exit=%d duration=%dms", msg.ExitStatus, int64(msg.EndMillis)-int64(started.StartMillis))
	if out := strings.TrimSpace(msg.Output); out != "" {
		detail += " output=" + strconv.Quote(firstLine(out))
	}
	h.add(msg.Kind(), &id, &at, detail, msg.ExitStatus != 0)
	return nil
}

func (h *dumpHandler) Log(_ context.Context, msg protocol.Log) error {
	h.add(msg.Kind(), nil, nil, msg.Text, msg.Level == protocol.KindError)
	return nil
}

func (h *dumpHandler) Unknown(_ context.Context, msg protocol.Unknown) error {
	h.add(msg.Kind(), nil, nil, fmt.Sprintf("fields=%d", msg.Fields), false)
	return nil
}

var _ frontend.Handler = (*dumpHandler)(nil)

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func newDumpCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "dump [STREAM]",
		Short: "Decode a captured status stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.contextLogger(cmd); err != nil {
				return err
			}
			in, closeIn, err := streamInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()

			handler := &dumpHandler{}
			runErr := frontend.New(in, handler, nil).Run(cmd.Context())

			if jsonFlag {
				if handler.rows == nil {
					handler.rows = []dumpRow{}
				}
				if err := writeJSON(cmd.OutOrStdout(), handler.rows); err != nil {
					return err
				}
				return runErr
			}

			columns := []column{
				{title: "#", right: true},
				{title: "Kind"},
				{title: "Edge", right: true},
				{title: "Time (ms)", right: true},
				{title: "Detail"},
			}
			rows := make([][]string, 0, len(handler.rows))
			highlight := make(map[int]bool)
			for i, row := range handler.rows {
				rows = append(rows, []string{
					strconv.Itoa(row.Seq),
					row.Kind,
					optionalUint(row.EdgeID),
					optionalUint(row.Millis),
					row.Detail,
				})
				if row.Failed {
					highlight[i] = true
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(columns, rows, highlight, shouldColorize(out)))
			return runErr
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func optionalUint(v *uint64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatUint(*v, 10)
}
