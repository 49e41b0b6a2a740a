package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/betsim/internal/model"
)

// naiveTimestamp is the zone-less ISO-8601 form found in older players documents
const naiveTimestamp = "2006-01-02T15:04:05"

// playerDocument is the on-disk shape of one player record
type playerDocument struct {
	ID             *string         `json:"id"`
	Name           *string         `json:"name"`
	AccountBalance json.RawMessage `json:"account_balance"`
	CreatedAt      *string         `json:"created_at"`
	History        []string        `json:"history"`
}

// IOError wraps a backend failure as model.ErrIO
func IOError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrIO, op, err)
}

func corrupt(doc string, format string, args ...any) error {
	return fmt.Errorf("%w: %s document is corrupt: %s", model.ErrIO, doc, fmt.Sprintf(format, args...))
}

// EmptyPlayers is the encoded form of an empty collection
func EmptyPlayers() []byte {
	return []byte("{}")
}

// EmptyQueue is the encoded form of an empty queue
func EmptyQueue() []byte {
	return []byte("[]")
}

// EncodePlayers serializes a collection as a JSON object keyed by player id
func EncodePlayers(players model.Collection) ([]byte, error) {
	docs := make(map[string]playerDocument, len(players))
	for id, p := range players {
		if p == nil {
			return nil, fmt.Errorf("%w: nil player %q", model.ErrIO, id)
		}
		playerID := string(p.ID)
		name := p.Name
		balance := json.RawMessage(p.AccountBalance.String())
		createdAt := p.CreatedAt.UTC().Format(time.RFC3339Nano)
		history := p.History
		if history == nil {
			history = []string{}
		}
		if len(history) > model.MaxHistory {
			history = history[len(history)-model.MaxHistory:]
		}
		docs[string(id)] = playerDocument{
			ID:             &playerID,
			Name:           &name,
			AccountBalance: balance,
			CreatedAt:      &createdAt,
			History:        history,
		}
	}
	data, err := json.MarshalIndent(docs, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode players: %w", model.ErrIO, err)
	}
	return data, nil
}

// DecodePlayers parses a players document, rejecting anything that does not match the
// expected shape
func DecodePlayers(data []byte) (model.Collection, error) {
	var docs map[string]*playerDocument
	if err := decodeStrict(data, &docs); err != nil {
		return nil, corrupt("players", "%v", err)
	}
	if docs == nil {
		return nil, corrupt("players", "expected a JSON object")
	}

	players := make(model.Collection, len(docs))
	for key, doc := range docs {
		p, err := doc.toPlayer(key)
		if err != nil {
			return nil, err
		}
		players[p.ID] = p
	}
	return players, nil
}

func (d *playerDocument) toPlayer(key string) (*model.Player, error) {
	if d == nil {
		return nil, corrupt("players", "record %q is null", key)
	}
	switch {
	case d.ID == nil:
		return nil, corrupt("players", "record %q has no id", key)
	case d.Name == nil:
		return nil, corrupt("players", "record %q has no name", key)
	case len(d.AccountBalance) == 0:
		return nil, corrupt("players", "record %q has no account_balance", key)
	case d.CreatedAt == nil:
		return nil, corrupt("players", "record %q has no created_at", key)
	}
	if *d.ID != key {
		return nil, corrupt("players", "record %q has mismatched id %q", key, *d.ID)
	}

	balance, err := parseBalance(d.AccountBalance)
	if err != nil {
		return nil, corrupt("players", "record %q has invalid account_balance: %v", key, err)
	}
	if balance.IsNegative() {
		return nil, corrupt("players", "record %q has a negative account_balance", key)
	}

	createdAt, err := parseTimestamp(*d.CreatedAt)
	if err != nil {
		return nil, corrupt("players", "record %q has invalid created_at: %v", key, err)
	}

	if len(d.History) > model.MaxHistory {
		return nil, corrupt("players", "record %q has %d history entries", key, len(d.History))
	}
	history := make([]string, len(d.History))
	copy(history, d.History)

	return &model.Player{
		ID:             model.PlayerID(key),
		Name:           *d.Name,
		AccountBalance: balance,
		CreatedAt:      createdAt,
		History:        history,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	// Zone-less timestamps were always written in UTC
	return time.Parse(naiveTimestamp, s)
}

// EncodeQueue serializes the queue as a JSON array of ids, head first
func EncodeQueue(queue []string) ([]byte, error) {
	if queue == nil {
		queue = []string{}
	}
	data, err := json.MarshalIndent(queue, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode queue: %w", model.ErrIO, err)
	}
	return data, nil
}

// DecodeQueue parses a queue document
func DecodeQueue(data []byte) ([]string, error) {
	var queue []string
	if err := decodeStrict(data, &queue); err != nil {
		return nil, corrupt("queue", "%v", err)
	}
	if queue == nil {
		return nil, corrupt("queue", "expected a JSON array")
	}
	return queue, nil
}

// parseBalance accepts only a bare JSON number
func parseBalance(raw json.RawMessage) (decimal.Decimal, error) {
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return decimal.Decimal{}, fmt.Errorf("expected a number, got %s", raw)
	}
	return decimal.NewFromString(string(raw))
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("document is empty")
		}
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after document")
	}
	return nil
}
