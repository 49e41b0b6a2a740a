package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/betsim/internal/model"
)

type CLISuite struct {
	suite.Suite
	dataDir string
	stdin   io.Reader
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.dataDir = s.T().TempDir()
	s.stdin = strings.NewReader("")
}

// run executes the CLI in-process against a fresh file store directory
func (s *CLISuite) run(args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(s.stdin)
	cmd.SetArgs(append([]string{"--data-dir", s.dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// runJSON executes the CLI with JSON output and decodes the result into v
func (s *CLISuite) runJSON(v any, args ...string) {
	out, err := s.run(append([]string{"--output", "json"}, args...)...)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal([]byte(out), v), out)
}

func (s *CLISuite) addPlayer(name, balance string) PlayerView {
	var p PlayerView
	s.runJSON(&p, "player", "add", "--name", name, "--balance", balance)
	return p
}

// Player tests

func (s *CLISuite) TestPlayerAdd() {
	p := s.addPlayer("Alice", "100")

	s.Len(p.ID, 8)
	s.Equal("Alice", p.Name)
	s.Equal("100", p.Balance.String())
	s.Empty(p.History)

	_, err := os.Stat(filepath.Join(s.dataDir, "players.json"))
	s.NoError(err)
}

func (s *CLISuite) TestPlayerAddRejectsDuplicateName() {
	s.addPlayer("Alice", "100")

	_, err := s.run("player", "add", "--name", "alice", "--balance", "5")
	s.ErrorIs(err, model.ErrDuplicateName)
	s.Equal(exitValidation, exitCode(err))
}

func (s *CLISuite) TestPlayerAddRejectsBadBalance() {
	_, err := s.run("player", "add", "--name", "Alice", "--balance", "-1")
	s.ErrorIs(err, model.ErrNegativeBalance)

	_, err = s.run("player", "add", "--name", "Alice", "--balance", "lots")
	s.ErrorIs(err, model.ErrValidation)
}

func (s *CLISuite) TestPlayerGet() {
	p := s.addPlayer("Alice", "100")

	var byID PlayerView
	s.runJSON(&byID, "player", "get", p.ID)
	s.Equal(p.ID, byID.ID)

	var byName PlayerView
	s.runJSON(&byName, "player", "get", "--name", "ALICE")
	s.Equal(p.ID, byName.ID)

	_, err := s.run("player", "get", "NOPE0000")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Equal(exitNotFound, exitCode(err))
}

func (s *CLISuite) TestPlayerList() {
	s.addPlayer("Alice", "100")
	s.addPlayer("Bob", "50")

	var players []PlayerView
	s.runJSON(&players, "player", "list")
	s.Require().Len(players, 2)

	out, err := s.run("player", "list")
	s.Require().NoError(err)
	s.Contains(out, "Alice")
	s.Contains(out, "Bob")
}

func (s *CLISuite) TestPlayerUpdate() {
	p := s.addPlayer("Alice", "100")

	var updated PlayerView
	s.runJSON(&updated, "player", "update", p.ID, "--balance", "12.50", "--name", "Alicia")
	s.Equal("12.5", updated.Balance.String())
	s.Equal("Alicia", updated.Name)
}

func (s *CLISuite) TestPlayerUpdateNegativeBalanceLeavesRecord() {
	p := s.addPlayer("Alice", "100")

	_, err := s.run("player", "update", p.ID, "--balance", "-10")
	s.ErrorIs(err, model.ErrNegativeBalance)

	var stored PlayerView
	s.runJSON(&stored, "player", "get", p.ID)
	s.Equal("100", stored.Balance.String())
}

func (s *CLISuite) TestPlayerDelete() {
	p := s.addPlayer("Alice", "100")

	_, err := s.run("player", "delete", p.ID)
	s.Require().NoError(err)

	_, err = s.run("player", "delete", p.ID)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// History tests

func (s *CLISuite) TestHistoryCommands() {
	p := s.addPlayer("Alice", "100")

	_, err := s.run("history", "push", p.ID, "bet", "10", "on", "red")
	s.Require().NoError(err)
	_, err = s.run("history", "push", p.ID, "bet 20")
	s.Require().NoError(err)

	var list map[string][]string
	s.runJSON(&list, "history", "list", p.ID)
	s.Equal([]string{"bet 10 on red", "bet 20"}, list["history"])

	var peeked map[string]string
	s.runJSON(&peeked, "history", "peek", p.ID)
	s.Equal("bet 20", peeked["action"])

	var popped map[string]string
	s.runJSON(&popped, "history", "pop", p.ID)
	s.Equal("bet 20", popped["action"])

	_, err = s.run("history", "clear", p.ID)
	s.Require().NoError(err)

	_, err = s.run("history", "pop", p.ID)
	s.ErrorIs(err, model.ErrEmptyHistory)
	s.Equal(exitEmpty, exitCode(err))
}

func (s *CLISuite) TestHistoryKeepsLastTen() {
	p := s.addPlayer("Alice", "100")
	for i := 1; i <= 11; i++ {
		_, err := s.run("history", "push", p.ID, fmt.Sprintf("a%d", i))
		s.Require().NoError(err)
	}

	var list map[string][]string
	s.runJSON(&list, "history", "list", p.ID)
	s.Len(list["history"], model.MaxHistory)
	s.Equal("a2", list["history"][0])
}

// Queue tests

func (s *CLISuite) TestQueueCommands() {
	for _, id := range []string{"A", "B", "A"} {
		_, err := s.run("queue", "add", id)
		s.Require().NoError(err)
	}

	var size map[string]int
	s.runJSON(&size, "queue", "size")
	s.Equal(3, size["size"])

	var next map[string]string
	s.runJSON(&next, "queue", "next")
	s.Equal("A", next["id"])

	var list map[string][]string
	s.runJSON(&list, "queue", "list")
	s.Equal([]string{"B", "A"}, list["queue"])

	_, err := s.run("queue", "clear")
	s.Require().NoError(err)

	_, err = s.run("queue", "next")
	s.ErrorIs(err, model.ErrEmptyQueue)

	_, err = s.run("queue", "peek")
	s.ErrorIs(err, model.ErrEmptyQueue)
}

// Solve tests

func (s *CLISuite) TestSolve() {
	var solution SolutionView
	s.runJSON(&solution, "solve", "--balance", "100", "--options", "5,10,20,50")
	s.Equal([]int{5, 10, 20, 50}, solution.Bets)
	s.Equal(85, solution.Total)

	out, err := s.run("solve", "--balance", "3", "--options", "5,10")
	s.Require().NoError(err)
	s.Contains(out, "No combination")

	_, err = s.run("solve", "--balance", "10", "--options", "5,5")
	s.ErrorIs(err, model.ErrInvalidBetOptions)
}

// Game tests

func (s *CLISuite) TestGuessAutoAlwaysWins() {
	p := s.addPlayer("Alice", "100")

	var result GuessView
	s.runJSON(&result, "game", "guess", p.ID, "--bet", "10", "--range", "50", "--auto")
	s.True(result.Won)
	s.Equal("40", result.Delta.String())
	s.Equal("140", result.Balance.String())
}

func (s *CLISuite) TestGuessWithoutInputIsAbandoned() {
	p := s.addPlayer("Alice", "100")
	s.stdin = strings.NewReader("not a number\n")

	_, err := s.run("game", "guess", p.ID, "--bet", "10")
	s.ErrorContains(err, "no guess entered")

	var stored PlayerView
	s.runJSON(&stored, "player", "get", p.ID)
	s.Equal("100", stored.Balance.String())
	s.Empty(stored.History)
}

func (s *CLISuite) TestSlotMovesBalanceByBet() {
	p := s.addPlayer("Alice", "100")

	var result SlotView
	s.runJSON(&result, "game", "slot", p.ID, "--bet", "10")
	s.Len(result.Reels, 3)
	if result.Won {
		s.Equal("110", result.Balance.String())
	} else {
		s.Equal("90", result.Balance.String())
	}

	var list map[string][]string
	s.runJSON(&list, "history", "list", p.ID)
	s.Equal([]string{result.Entry}, list["history"])
}

func (s *CLISuite) TestSlotRejectsOverdraw() {
	p := s.addPlayer("Alice", "5")

	_, err := s.run("game", "slot", p.ID, "--bet", "10")
	s.ErrorIs(err, model.ErrInsufficientBalance)
}

// Report tests

func (s *CLISuite) TestReportPrintsAndExports() {
	s.addPlayer("Alice", "10")
	s.addPlayer("Bob", "20")

	out, err := s.run("report", "ranking")
	s.Require().NoError(err)
	s.Contains(out, "RANK")
	s.Less(strings.Index(out, "Bob"), strings.Index(out, "Alice"))

	reportsDir := filepath.Join(s.T().TempDir(), "reports")
	var exported Exported
	s.runJSON(&exported, "--reports-dir", reportsDir, "report", "top", "--export")
	s.Equal([]string{
		filepath.Join(reportsDir, "top_balances.json"),
		filepath.Join(reportsDir, "top_balances.csv"),
	}, exported.Paths)

	csvData, err := os.ReadFile(exported.Paths[1])
	s.Require().NoError(err)
	s.Equal("name,balance\nBob,20\nAlice,10\n", string(csvData))
}

// Configuration tests

func (s *CLISuite) TestOutputFromEnvironment() {
	s.T().Setenv("BETSIM_OUTPUT", "json")

	out, err := s.run("solve", "--balance", "30", "--options", "10,20,30")
	s.Require().NoError(err)
	s.JSONEq(`{"bets": [10, 20], "total": 30}`, out)
}

func (s *CLISuite) TestFlagOverridesEnvironment() {
	s.T().Setenv("BETSIM_OUTPUT", "json")

	out, err := s.run("--output", "text", "solve", "--balance", "30", "--options", "10,20,30")
	s.Require().NoError(err)
	s.Contains(out, "Bets: 10 + 20")
}

func (s *CLISuite) TestConfigFile() {
	path := filepath.Join(s.T().TempDir(), "betsim.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("output: json\nstorage: memory\n"), 0o644))

	out, err := s.run("--config", path, "queue", "size")
	s.Require().NoError(err)
	s.JSONEq(`{"size": 0}`, out)
}

func (s *CLISuite) TestInvalidSettings() {
	_, err := s.run("--storage", "postgres", "player", "list")
	s.ErrorContains(err, "invalid storage")

	_, err = s.run("--output", "xml", "player", "list")
	s.ErrorContains(err, "invalid output")
}

func (s *CLISuite) TestCorruptDocumentIsStorageError() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dataDir, "players.json"), []byte("{oops"), 0o644))

	_, err := s.run("player", "list")
	s.ErrorIs(err, model.ErrIO)
	s.Equal(exitStorage, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitValidation, exitCode(model.ErrDuplicateName))
	assert.Equal(t, exitNotFound, exitCode(model.ErrPlayerNotFound))
	assert.Equal(t, exitEmpty, exitCode(model.ErrEmptyQueue))
	assert.Equal(t, exitStorage, exitCode(fmt.Errorf("%w: disk", model.ErrIO)))
	assert.Equal(t, exitError, exitCode(errors.New("boom")))
}

func TestPrintErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput(OutputJSON, &buf).PrintError(model.ErrEmptyHistory)
	assert.JSONEq(t, `{"error": {"message": "history is empty", "code": 4}}`, buf.String())
}
