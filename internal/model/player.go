package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxHistory is the number of history entries kept per player
const MaxHistory = 10

// PlayerID uniquely identifies a player in the ledger
type PlayerID string

// Player is a ledger account
type Player struct {
	ID             PlayerID
	Name           string
	AccountBalance decimal.Decimal
	CreatedAt      time.Time
	History        []string // oldest first
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	c := *p
	c.History = make([]string, len(p.History))
	copy(c.History, p.History)
	return &c
}

// NameMatches reports whether name equals the player's name, ignoring case
func (p *Player) NameMatches(name string) bool {
	return strings.EqualFold(p.Name, name)
}

// AppendHistory adds an action and drops the oldest entries beyond MaxHistory
func (p *Player) AppendHistory(action string) {
	p.History = append(p.History, action)
	if over := len(p.History) - MaxHistory; over > 0 {
		p.History = append([]string(nil), p.History[over:]...)
	}
}

// Collection is the full set of players keyed by id
type Collection map[PlayerID]*Player

// Clone returns a deep copy of the collection
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for id, p := range c {
		out[id] = p.Clone()
	}
	return out
}
