// Package report builds summaries over the ledger and exports them as JSON and CSV.
package report

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/mcoot/betsim/internal/model"
	"github.com/mcoot/betsim/internal/services/games"
	"github.com/mcoot/betsim/internal/services/ledger"
	"github.com/mcoot/betsim/internal/storage"
)

// Report names, also used as export file names
const (
	TopBalancesName       = "top_balances"
	RankingName           = "earnings_ranking"
	PlayerHistoryName     = "player_history"
	LossCountsName        = "loss_counts"
	GameParticipationName = "game_participation"
)

// lossMarker identifies a losing play in a history entry
const lossMarker = " lost "

var gamePrefixes = []struct {
	game   string
	prefix string
}{
	{"slot", games.SlotPrefix},
	{"guess", games.GuessPrefix},
}

// Service generates reports from the ledger and writes them under a reports directory
type Service struct {
	ledger *ledger.Service
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// New creates a new report Service
func New(ledger *ledger.Service, fs afero.Fs, dir string, logger *slog.Logger) *Service {
	return &Service{
		ledger: ledger,
		fs:     fs,
		dir:    dir,
		logger: logger,
	}
}

// TopBalances lists players by descending balance. A limit of zero or less lists everyone.
func (s *Service) TopBalances(ctx context.Context, limit int) (*Table, error) {
	players, err := s.byBalance(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(players) {
		players = players[:limit]
	}

	t := &Table{Name: TopBalancesName, Columns: []string{"name", "balance"}}
	for _, p := range players {
		t.add(p.Name, p.AccountBalance)
	}
	return t, nil
}

// Ranking numbers players from 1 by descending balance
func (s *Service) Ranking(ctx context.Context) (*Table, error) {
	players, err := s.byBalance(ctx)
	if err != nil {
		return nil, err
	}

	t := &Table{Name: RankingName, Columns: []string{"rank", "id", "name", "balance"}}
	for i, p := range players {
		t.add(i+1, string(p.ID), p.Name, p.AccountBalance)
	}
	return t, nil
}

// PlayerHistory lists one player's history, oldest first
func (s *Service) PlayerHistory(ctx context.Context, id model.PlayerID) (*Table, error) {
	player, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t := &Table{
		Name:    PlayerHistoryName + "_" + string(id),
		Columns: []string{"n", "action"},
	}
	for i, action := range player.History {
		t.add(i+1, action)
	}
	return t, nil
}

// LossCounts counts the losing plays in each player's history, most losses first
func (s *Service) LossCounts(ctx context.Context) (*Table, error) {
	players, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	type row struct {
		player *model.Player
		losses int
	}
	rows := make([]row, 0, len(players))
	for _, p := range players {
		n := 0
		for _, action := range p.History {
			if strings.Contains(action, lossMarker) {
				n++
			}
		}
		rows = append(rows, row{player: p, losses: n})
	}
	slices.SortStableFunc(rows, func(a, b row) int {
		return b.losses - a.losses
	})

	t := &Table{Name: LossCountsName, Columns: []string{"id", "name", "losses"}}
	for _, r := range rows {
		t.add(string(r.player.ID), r.player.Name, r.losses)
	}
	return t, nil
}

// GameParticipation counts recorded plays and distinct players per game
func (s *Service) GameParticipation(ctx context.Context) (*Table, error) {
	players, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	t := &Table{Name: GameParticipationName, Columns: []string{"game", "plays", "players"}}
	for _, g := range gamePrefixes {
		plays, participants := 0, 0
		for _, p := range players {
			n := 0
			for _, action := range p.History {
				if strings.HasPrefix(action, g.prefix) {
					n++
				}
			}
			plays += n
			if n > 0 {
				participants++
			}
		}
		t.add(g.game, plays, participants)
	}
	return t, nil
}

// Export writes the table to <dir>/<name>.json and <dir>/<name>.csv and returns both paths
func (s *Service) Export(t *Table) ([]string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, storage.IOError("create reports directory", err)
	}

	jsonData, err := t.encodeJSON()
	if err != nil {
		return nil, storage.IOError("encode report", err)
	}
	csvData, err := t.encodeCSV()
	if err != nil {
		return nil, storage.IOError("encode report", err)
	}

	paths := []string{
		filepath.Join(s.dir, t.Name+".json"),
		filepath.Join(s.dir, t.Name+".csv"),
	}
	for i, data := range [][]byte{jsonData, csvData} {
		if err := afero.WriteFile(s.fs, paths[i], data, 0o644); err != nil {
			s.logger.Error("failed to export report",
				slog.String("path", paths[i]),
				slog.String("error", err.Error()),
			)
			return nil, storage.IOError("write report", err)
		}
	}

	s.logger.Info("report exported",
		slog.String("report", t.Name),
		slog.Int("rows", len(t.Rows)),
	)
	return paths, nil
}

func (s *Service) byBalance(ctx context.Context) ([]*model.Player, error) {
	players, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(players, func(a, b *model.Player) int {
		return b.AccountBalance.Cmp(a.AccountBalance)
	})
	return players, nil
}
