package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/games"
	"github.com/mcoot/betsim/internal/services/report"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == OutputJSON {
		errData := map[string]any{
			"error": map[string]any{
				"message": err.Error(),
				"code":    exitCode(err),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(toView(data))
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Player:
		o.printPlayer(v)
	case []*model.Player:
		o.printPlayers(v)
	case Entries:
		o.printEntries(v)
	case Entry:
		fmt.Fprintln(o.w, v.Value)
	case Count:
		fmt.Fprintf(o.w, "%s: %d\n", v.Label, v.N)
	case model.Solution:
		o.printSolution(v)
	case *games.SlotResult:
		o.printSlot(v)
	case *games.GuessResult:
		o.printGuess(v)
	case *report.Table:
		o.printTable(v)
	case Exported:
		for _, p := range v.Paths {
			fmt.Fprintf(o.w, "Saved %s\n", p)
		}
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Entries is a titled list of strings (history entries or queued ids)
type Entries struct {
	Title  string
	Key    string
	Values []string
}

// Entry is a single string result
type Entry struct {
	Key   string
	Value string
}

// Count is a labelled number
type Count struct {
	Label string
	Key   string
	N     int
}

// Exported lists the files a report was written to
type Exported struct {
	Paths []string `json:"paths"`
}

// PlayerView is the JSON shape of a player
type PlayerView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Balance   json.Number `json:"account_balance"`
	CreatedAt string      `json:"created_at"`
	History   []string    `json:"history"`
}

func newPlayerView(p *model.Player) PlayerView {
	history := p.History
	if history == nil {
		history = []string{}
	}
	return PlayerView{
		ID:        string(p.ID),
		Name:      p.Name,
		Balance:   json.Number(p.AccountBalance.String()),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339Nano),
		History:   history,
	}
}

// SolutionView is the JSON shape of a solver result
type SolutionView struct {
	Bets  []int `json:"bets"`
	Total int   `json:"total"`
}

// SlotView is the JSON shape of a slot spin
type SlotView struct {
	Reels   []string    `json:"reels"`
	Won     bool        `json:"won"`
	Delta   json.Number `json:"delta"`
	Balance json.Number `json:"balance"`
	Entry   string      `json:"entry"`
}

// GuessView is the JSON shape of a guessing round
type GuessView struct {
	Secret   int         `json:"secret"`
	Won      bool        `json:"won"`
	Attempts int         `json:"attempts"`
	Delta    json.Number `json:"delta"`
	Balance  json.Number `json:"balance"`
	Entry    string      `json:"entry"`
}

func toView(data any) any {
	switch v := data.(type) {
	case *model.Player:
		return newPlayerView(v)
	case []*model.Player:
		views := make([]PlayerView, len(v))
		for i, p := range v {
			views[i] = newPlayerView(p)
		}
		return views
	case Entries:
		values := v.Values
		if values == nil {
			values = []string{}
		}
		return map[string][]string{v.Key: values}
	case Entry:
		return map[string]string{v.Key: v.Value}
	case Count:
		return map[string]int{v.Key: v.N}
	case model.Solution:
		return SolutionView{Bets: v.Bets, Total: v.Total}
	case *games.SlotResult:
		return SlotView{
			Reels:   v.Reels[:],
			Won:     v.Won,
			Delta:   json.Number(v.Delta.String()),
			Balance: json.Number(v.Balance.String()),
			Entry:   v.Entry,
		}
	case *games.GuessResult:
		return GuessView{
			Secret:   v.Secret,
			Won:      v.Won,
			Attempts: v.Attempts,
			Delta:    json.Number(v.Delta.String()),
			Balance:  json.Number(v.Balance.String()),
			Entry:    v.Entry,
		}
	default:
		return data
	}
}

func (o *Output) printPlayer(p *model.Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Balance: %s\n", p.AccountBalance)
	fmt.Fprintf(o.w, "Created: %s\n", p.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(o.w, "History: %d/%d entries\n", len(p.History), model.MaxHistory)
}

func (o *Output) printPlayers(players []*model.Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBALANCE\tCREATED")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.AccountBalance, p.CreatedAt.UTC().Format(time.RFC3339))
	}
	_ = tw.Flush()
}

func (o *Output) printEntries(e Entries) {
	fmt.Fprintf(o.w, "%s (%d):\n", e.Title, len(e.Values))
	for i, v := range e.Values {
		fmt.Fprintf(o.w, "  %d. %s\n", i+1, v)
	}
}

func (o *Output) printSolution(s model.Solution) {
	if len(s.Bets) == 0 {
		fmt.Fprintln(o.w, "No combination of bets fits the balance")
		return
	}
	bets := make([]string, len(s.Bets))
	for i, b := range s.Bets {
		bets[i] = fmt.Sprint(b)
	}
	fmt.Fprintf(o.w, "Bets: %s\n", strings.Join(bets, " + "))
	fmt.Fprintf(o.w, "Total: %d\n", s.Total)
}

func (o *Output) printSlot(r *games.SlotResult) {
	fmt.Fprintf(o.w, "Reels: %s\n", strings.Join(r.Reels[:], " | "))
	if r.Won {
		fmt.Fprintf(o.w, "You won %s!\n", r.Delta)
	} else {
		fmt.Fprintf(o.w, "You lost %s\n", r.Delta.Abs())
	}
	fmt.Fprintf(o.w, "Balance: %s\n", r.Balance)
}

func (o *Output) printGuess(r *games.GuessResult) {
	if r.Won {
		fmt.Fprintf(o.w, "Correct! The number was %d. You won %s in %d attempts.\n", r.Secret, r.Delta, r.Attempts)
	} else {
		fmt.Fprintf(o.w, "Out of attempts. The number was %d. You lost %s.\n", r.Secret, r.Delta.Abs())
	}
	fmt.Fprintf(o.w, "Balance: %s\n", r.Balance)
}

func (o *Output) printTable(t *report.Table) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(t.Columns, "\t")))
	for _, row := range t.Strings() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}
