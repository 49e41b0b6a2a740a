package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/betsim/internal/model"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Player action history commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push <id> <action...>",
		Short: "Record an action for a player",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := strings.Join(args[1:], " ")
			if err := app.History.Push(cmd.Context(), model.PlayerID(args[0]), action); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Recorded")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pop <id>",
		Short: "Remove and show a player's newest action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := app.History.Pop(cmd.Context(), model.PlayerID(args[0]))
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Entry{Key: "action", Value: action})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "peek <id>",
		Short: "Show a player's newest action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := app.History.Peek(cmd.Context(), model.PlayerID(args[0]))
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Entry{Key: "action", Value: action})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list <id>",
		Short: "Show a player's history, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.History.GetAll(cmd.Context(), model.PlayerID(args[0]))
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Entries{Title: "History", Key: "history", Values: entries})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <id>",
		Short: "Clear a player's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.History.Clear(cmd.Context(), model.PlayerID(args[0])); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("History cleared")
			return nil
		},
	})

	return cmd
}
