package cli

import (
	"github.com/spf13/cobra"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Waiting queue commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id>",
		Short: "Add a player id to the back of the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Queue.Enqueue(cmd.Context(), args[0]); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Queued " + args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "next",
		Short: "Remove and show the front of the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Queue.Dequeue(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Entry{Key: "id", Value: id})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "peek",
		Short: "Show the front of the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Queue.Peek(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Entry{Key: "id", Value: id})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the queue, front first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := app.Queue.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Entries{Title: "Queue", Key: "queue", Values: ids})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "size",
		Short: "Show how many entries are waiting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Queue.Len(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Count{Label: "Waiting", Key: "size", N: n})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Queue.Clear(cmd.Context()); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Queue cleared")
			return nil
		},
	})

	return cmd
}
