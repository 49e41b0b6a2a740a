package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/ledger"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerDeleteCmd())

	return cmd
}

func parseAmount(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: --%s must be a number", model.ErrValidation, flag)
	}
	return d, nil
}

func newPlayerAddCmd() *cobra.Command {
	var name, balance string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("balance", balance)
			if err != nil {
				return err
			}

			player, err := app.Ledger.Add(cmd.Context(), name, amount)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(player)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().StringVar(&balance, "balance", "0", "Starting balance")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := app.Ledger.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(players)
			return nil
		},
	}
}

func newPlayerGetCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a player by id, or by name with --name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var player *model.Player
			var err error

			switch {
			case name != "" && len(args) == 0:
				player, err = app.Ledger.GetByName(cmd.Context(), name)
			case name == "" && len(args) == 1:
				player, err = app.Ledger.GetByID(cmd.Context(), model.PlayerID(args[0]))
			default:
				return fmt.Errorf("provide either an id or --name")
			}
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(player)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Find by name instead of id (case-insensitive)")

	return cmd
}

func newPlayerUpdateCmd() *cobra.Command {
	var name, balance string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a player's name or balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params ledger.UpdateParams
			if cmd.Flags().Changed("name") {
				params.Name = &name
			}
			if cmd.Flags().Changed("balance") {
				amount, err := parseAmount("balance", balance)
				if err != nil {
					return err
				}
				params.Balance = &amount
			}
			if params.Name == nil && params.Balance == nil {
				return fmt.Errorf("nothing to update: set --name or --balance")
			}

			player, err := app.Ledger.Update(cmd.Context(), model.PlayerID(args[0]), params)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(player)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&balance, "balance", "", "New balance")

	return cmd
}

func newPlayerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := app.Ledger.Delete(cmd.Context(), model.PlayerID(args[0]))
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(player)
			return nil
		},
	}
}
