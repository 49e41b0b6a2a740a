package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/betsim/internal/services/solver"
)

func newSolveCmd() *cobra.Command {
	var balance int
	var options []int

	cmd := &cobra.Command{
		Use:     "solve",
		Short:   "Find the combination of bets with the largest total within a balance",
		Example: `  betsim solve --balance 100 --options 5,10,20,50`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			solution, err := solver.Solve(balance, options)
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(solution)
			return nil
		},
	}

	cmd.Flags().IntVar(&balance, "balance", 0, "Balance to stay within (required)")
	cmd.Flags().IntSliceVar(&options, "options", nil, "Distinct positive bet sizes, in order")
	_ = cmd.MarkFlagRequired("balance")

	return cmd
}
