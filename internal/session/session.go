// Package session runs one operator session against the berth inventory:
// load the file, apply commands to the in-memory collection, journal what
// changed, and save on exit.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/berths/internal/csvfile"
	"github.com/mesh-intelligence/berths/internal/fleet"
	"github.com/mesh-intelligence/berths/internal/ledger"
	"github.com/mesh-intelligence/berths/pkg/types"
)

// ErrClosed is returned by operations on a session after Close succeeded.
var ErrClosed = errors.New("session is closed")

// Journal receives a record of every change made through a Session.
type Journal interface {
	Record(ctx context.Context, e ledger.Entry) error
}

// Session owns the collection for the lifetime of one run.
type Session struct {
	boats    *fleet.Collection
	saveFile string
	journal  Journal
	logger   *slog.Logger
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithJournal records every change to j. Journal failures are logged and do
// not fail the operation.
func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

// WithLogger sets the diagnostics logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Open validates cfg and loads cfg.DataFile. A file that cannot be read is
// an error; malformed lines inside it are skipped.
func Open(cfg types.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	parse := types.ParseLine
	if cfg.Strict {
		parse = types.ParseLineStrict
	}
	s := &Session{
		boats:    fleet.New(fleet.WithCapacity(cfg.Capacity), fleet.WithParser(parse)),
		saveFile: cfg.OutputFile(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	loadOpts := []csvfile.LoadOption{csvfile.WithLogger(s.logger)}
	if cfg.Strict {
		loadOpts = append(loadOpts, csvfile.Strict())
	}

	report, err := csvfile.LoadFile(cfg.DataFile, s.boats, loadOpts...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("inventory loaded",
		"file", cfg.DataFile,
		"loaded", report.Loaded,
		"skipped", report.Skipped,
		"truncated", report.Truncated,
	)
	return s, nil
}

// Len returns the number of boats in the session.
func (s *Session) Len() int { return s.boats.Len() }

// SaveFile returns the path Save writes to.
func (s *Session) SaveFile() string { return s.saveFile }

// Inventory sorts the collection by name, if it is not already, and
// returns it.
func (s *Session) Inventory() ([]types.Boat, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if !s.boats.Sorted() {
		s.boats.SortByName()
	}
	return s.boats.List(), nil
}

// Add parses an inventory line and adds the boat. The capacity check runs
// first, so a full collection reports fleet.ErrCapacityExceeded even for a
// bad line.
func (s *Session) Add(ctx context.Context, line string) (types.Boat, error) {
	if s.closed {
		return types.Boat{}, ErrClosed
	}
	b, err := s.boats.AddLine(line)
	if err != nil {
		return types.Boat{}, err
	}
	s.logger.Debug("boat added", "name", b.Name, "placement", b.Placement.String())
	s.record(ctx, ledger.Entry{Kind: ledger.KindAdd, Boat: b.Name, Balance: b.Owed})
	return b, nil
}

// Remove deletes the first boat matching name, case-insensitively.
func (s *Session) Remove(ctx context.Context, name string) (types.Boat, error) {
	if s.closed {
		return types.Boat{}, ErrClosed
	}
	b, err := s.boats.Remove(name)
	if err != nil {
		return types.Boat{}, err
	}
	s.record(ctx, ledger.Entry{Kind: ledger.KindRemove, Boat: b.Name, Balance: b.Owed})
	return b, nil
}

// Pay applies a payment to the first boat matching name. A declined payment
// is reported in the result, not as an error.
func (s *Session) Pay(ctx context.Context, name string, amount decimal.Decimal) (fleet.PaymentResult, error) {
	if s.closed {
		return fleet.PaymentResult{}, ErrClosed
	}
	res, err := s.boats.ApplyPayment(name, amount)
	if err != nil {
		return res, err
	}
	kind := ledger.KindPayment
	if res.Status == fleet.PaymentDeclined {
		kind = ledger.KindDeclined
	}
	s.record(ctx, ledger.Entry{Kind: kind, Boat: res.Name, Amount: amount.Round(types.OwedPlaces), Balance: res.Owed})
	return res, nil
}

// Accrue applies the monthly fee to every balance.
func (s *Session) Accrue(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	s.boats.AccrueMonthlyFees()
	if s.journal == nil {
		return nil
	}
	return s.boats.Each(func(b types.Boat) error {
		s.record(ctx, ledger.Entry{Kind: ledger.KindAccrual, Boat: b.Name, Balance: b.Owed})
		return nil
	})
}

// Save writes the collection, in its current order, to the save file.
func (s *Session) Save() error {
	if s.closed {
		return ErrClosed
	}
	if err := csvfile.SaveFile(s.saveFile, s.boats); err != nil {
		return fmt.Errorf("saving %s: %w", s.saveFile, err)
	}
	s.logger.Debug("inventory saved", "file", s.saveFile, "boats", s.boats.Len())
	return nil
}

// Close saves and then releases the collection. When the save fails the
// collection is kept and the session stays open so the caller can retry.
// Close on a closed session is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.boats.Reset()
	s.closed = true
	return nil
}

func (s *Session) record(ctx context.Context, e ledger.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, e); err != nil {
		s.logger.Warn("ledger record failed", "kind", e.Kind, "boat", e.Boat, "error", err)
	}
}
