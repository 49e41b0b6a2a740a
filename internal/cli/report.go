package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/report"
)

func newReportCmd() *cobra.Command {
	var export bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports, optionally exporting them as JSON and CSV",
	}
	cmd.PersistentFlags().BoolVar(&export, "export", false, "Also write the report to the reports directory")

	// show prints the table, or the exported file paths with --export
	show := func(cmd *cobra.Command, t *report.Table, err error) error {
		if err != nil {
			return err
		}
		out := NewOutput(cfg.Output, cmd.OutOrStdout())
		if !export {
			out.Print(t)
			return nil
		}
		paths, err := app.Reports.Export(t)
		if err != nil {
			return err
		}
		out.Print(Exported{Paths: paths})
		return nil
	}

	var limit int
	top := &cobra.Command{
		Use:   "top",
		Short: "Players by descending balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Reports.TopBalances(cmd.Context(), limit)
			return show(cmd, t, err)
		},
	}
	top.Flags().IntVar(&limit, "limit", 0, "Only show this many players (0 for all)")
	cmd.AddCommand(top)

	cmd.AddCommand(&cobra.Command{
		Use:   "ranking",
		Short: "Numbered ranking by balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Reports.Ranking(cmd.Context())
			return show(cmd, t, err)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history <id>",
		Short: "One player's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Reports.PlayerHistory(cmd.Context(), model.PlayerID(args[0]))
			return show(cmd, t, err)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "losses",
		Short: "Losing plays per player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Reports.LossCounts(cmd.Context())
			return show(cmd, t, err)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "games",
		Short: "Plays and players per game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Reports.GameParticipation(cmd.Context())
			return show(cmd, t, err)
		},
	})

	return cmd
}
