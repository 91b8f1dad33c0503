// Package ledger keeps an append-only audit journal of inventory changes in
// SQLite: additions, removals, payments, declined payments and fee accruals.
//
// The inventory file stays the source of truth; the ledger only records what
// happened to it, one session at a time.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Entry kinds.
const (
	KindAdd      = "add"
	KindRemove   = "remove"
	KindPayment  = "payment"
	KindDeclined = "declined"
	KindAccrual  = "accrual"
)

var validKinds = map[string]bool{
	KindAdd:      true,
	KindRemove:   true,
	KindPayment:  true,
	KindDeclined: true,
	KindAccrual:  true,
}

// Ledger errors.
var (
	ErrInvalidKind = errors.New("invalid ledger entry kind")
	ErrClosed      = errors.New("ledger is closed")
)

// Entry is one recorded change.
type Entry struct {
	EntryID   string          // UUID v7, generated by Record.
	SessionID string          // Session that made the change.
	Kind      string          // One of the Kind constants.
	Boat      string          // Boat name as stored in the inventory.
	Amount    decimal.Decimal // Payment amount; zero for other kinds.
	Balance   decimal.Decimal // Balance owed after the change.
	CreatedAt time.Time
}

// Ledger is an open journal database.
type Ledger struct {
	db        *sql.DB
	sessionID string
}

// Open opens or creates the ledger at path and starts a new session.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Clean(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying ledger schema: %w", err)
		}
	}

	return &Ledger{db: db, sessionID: newID()}, nil
}

// SessionID returns the id stamped on entries recorded through this Ledger.
func (l *Ledger) SessionID() string { return l.sessionID }

// Record appends e. EntryID, SessionID and CreatedAt are filled in when
// empty. Returns ErrInvalidKind for an unknown kind.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if l.db == nil {
		return ErrClosed
	}
	if !validKinds[e.Kind] {
		return fmt.Errorf("%w: %q", ErrInvalidKind, e.Kind)
	}
	if e.EntryID == "" {
		e.EntryID = newID()
	}
	if e.SessionID == "" {
		e.SessionID = l.sessionID
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx,
		"INSERT INTO entries (entry_id, session_id, kind, boat, amount, balance, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.EntryID, e.SessionID, e.Kind, e.Boat, e.Amount.String(), e.Balance.String(),
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s for %s: %w", e.Kind, e.Boat, err)
	}
	return nil
}

// History returns entries for boat, matched case-insensitively, oldest
// first. An empty boat returns every entry.
func (l *Ledger) History(ctx context.Context, boat string) ([]Entry, error) {
	if l.db == nil {
		return nil, ErrClosed
	}

	query := "SELECT entry_id, session_id, kind, boat, amount, balance, created_at FROM entries"
	var args []any
	if boat != "" {
		query += " WHERE boat = ? COLLATE NOCASE"
		args = append(args, boat)
	}
	query += " ORDER BY rowid"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return entries, nil
}

// Close releases the database. Close is idempotent.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var amount, balance, createdAt string
	if err := rows.Scan(&e.EntryID, &e.SessionID, &e.Kind, &e.Boat, &amount, &balance, &createdAt); err != nil {
		return Entry{}, fmt.Errorf("scanning entry: %w", err)
	}

	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return Entry{}, fmt.Errorf("entry %s amount: %w", e.EntryID, err)
	}
	if e.Balance, err = decimal.NewFromString(balance); err != nil {
		return Entry{}, fmt.Errorf("entry %s balance: %w", e.EntryID, err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Entry{}, fmt.Errorf("entry %s created_at: %w", e.EntryID, err)
	}
	return e, nil
}

// newID returns a UUID v7, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
