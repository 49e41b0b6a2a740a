package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/games"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Play the slot machine or guessing game",
	}

	cmd.AddCommand(newGameSlotCmd())
	cmd.AddCommand(newGameGuessCmd())

	return cmd
}

func newGameSlotCmd() *cobra.Command {
	var bet string

	cmd := &cobra.Command{
		Use:   "slot <id>",
		Short: "Spin the slot machine; three matching symbols pay the bet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("bet", bet)
			if err != nil {
				return err
			}

			result, err := app.Slot.Play(cmd.Context(), model.PlayerID(args[0]), amount)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&bet, "bet", "", "Amount to bet (required)")
	_ = cmd.MarkFlagRequired("bet")

	return cmd
}

func newGameGuessCmd() *cobra.Command {
	var bet string
	var rangeMax int
	var auto bool

	cmd := &cobra.Command{
		Use:   "guess <id>",
		Short: "Guess a secret number; a hit pays four times the bet",
		Long: `Guess a secret number between 1 and --range. You get as many counted
guesses as a perfect halving strategy needs in the worst case; guesses outside
the range do not count. Guesses are read from stdin one per line, or played
automatically with --auto.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("bet", bet)
			if err != nil {
				return err
			}

			var guesser games.Guesser = newPromptGuesser(cmd.InOrStdin(), cmd.ErrOrStderr())
			if auto {
				guesser = games.NewBisectGuesser()
			}

			result, err := app.Guess.Play(cmd.Context(), model.PlayerID(args[0]), amount, rangeMax, guesser)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&bet, "bet", "", "Amount to bet (required)")
	cmd.Flags().IntVar(&rangeMax, "range", 10, "Highest possible secret")
	cmd.Flags().BoolVar(&auto, "auto", false, "Guess automatically by halving the range")
	_ = cmd.MarkFlagRequired("bet")

	return cmd
}

// promptGuesser reads guesses line by line, writing prompts and hints to w
type promptGuesser struct {
	scanner *bufio.Scanner
	w       io.Writer
}

func newPromptGuesser(r io.Reader, w io.Writer) *promptGuesser {
	return &promptGuesser{scanner: bufio.NewScanner(r), w: w}
}

func (p *promptGuesser) Guess(ctx context.Context, round games.Round) (int, error) {
	if hint := round.Feedback.String(); hint != "" {
		fmt.Fprintf(p.w, "%s\n", hint)
	}
	fmt.Fprintf(p.w, "Guess %d/%d (%d-%d): ", round.Attempt+1, round.MaxAttempts, round.Low, round.High)

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("no guess entered")
	}

	n, err := strconv.Atoi(strings.TrimSpace(p.scanner.Text()))
	if err != nil {
		// Not a number; treated like an out-of-range guess.
		return 0, nil
	}
	return n, nil
}
