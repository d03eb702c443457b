package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"buildstatus/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		slowestFlag bool
		buildsFlag  bool
		jsonFlag    bool
		limitFlag   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded builds and edges",
		Long: "Show the edges of the most recent recorded build. --slowest lists the\n" +
			"longest edges across all builds and --builds lists the builds themselves.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if slowestFlag && buildsFlag {
				return fmt.Errorf("--slowest and --builds are mutually exclusive")
			}
			store, err := ctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if buildsFlag {
				builds, err := store.RecentBuilds(cmd.Context(), limitFlag)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd.OutOrStdout(), buildsOrEmpty(builds))
				}
				printBuilds(cmd, builds)
				return nil
			}

			var edges []history.EdgeRecord
			if slowestFlag {
				edges, err = store.SlowestEdges(cmd.Context(), limitFlag)
			} else {
				edges, err = store.RecentEdges(cmd.Context(), limitFlag)
			}
			if err != nil {
				return err
			}
			if jsonFlag {
				if edges == nil {
					edges = []history.EdgeRecord{}
				}
				return writeJSON(cmd.OutOrStdout(), edges)
			}
			printEdges(cmd, edges)
			return nil
		},
	}

	cmd.Flags().BoolVar(&slowestFlag, "slowest", false, "List the slowest edges across all builds")
	cmd.Flags().BoolVar(&buildsFlag, "builds", false, "List recorded builds")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum number of rows")
	return cmd
}

func buildsOrEmpty(builds []history.BuildRecord) []history.BuildRecord {
	if builds == nil {
		return []history.BuildRecord{}
	}
	return builds
}

func printEdges(cmd *cobra.Command, edges []history.EdgeRecord) {
	out := cmd.OutOrStdout()
	if len(edges) == 0 {
		fmt.Fprintln(out, "No recorded edges")
		return
	}
	columns := []column{
		{title: "Edge", right: true},
		{title: "Description"},
		{title: "Duration", right: true},
		{title: "Exit", right: true},
		{title: "Build"},
	}
	rows := make([][]string, 0, len(edges))
	highlight := make(map[int]bool)
	for i, edge := range edges {
		rows = append(rows, []string{
			strconv.FormatUint(edge.EdgeID, 10),
			edge.Label(),
			edge.Duration().String(),
			strconv.FormatInt(edge.ExitStatus, 10),
			shortID(edge.BuildID),
		})
		if edge.ExitStatus != 0 {
			highlight[i] = true
		}
	}
	fmt.Fprintln(out, renderTable(columns, rows, highlight, shouldColorize(out)))
}

func printBuilds(cmd *cobra.Command, builds []history.BuildRecord) {
	out := cmd.OutOrStdout()
	if len(builds) == 0 {
		fmt.Fprintln(out, "No recorded builds")
		return
	}
	columns := []column{
		{title: "Build"},
		{title: "Started"},
		{title: "Jobs", right: true},
		{title: "Edges", right: true},
		{title: "Failed", right: true},
		{title: "Finished"},
	}
	rows := make([][]string, 0, len(builds))
	highlight := make(map[int]bool)
	for i, b := range builds {
		rows = append(rows, []string{
			shortID(b.ID),
			b.StartedAt.Local().Format(time.DateTime),
			strconv.Itoa(b.Parallelism),
			strconv.Itoa(b.Edges),
			strconv.Itoa(b.Failed),
			yesNo(b.Finished),
		})
		if b.Failed > 0 {
			highlight[i] = true
		}
	}
	fmt.Fprintln(out, renderTable(columns, rows, highlight, shouldColorize(out)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
