// Package fleet holds the in-memory berth inventory: an ordered, bounded
// collection of boats with name lookup, removal, payments and monthly fee
// accrual.
//
// Names are looked up case-insensitively and are not required to be unique.
// Lookups and removals act on the first match in the current order.
package fleet

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/berths/pkg/types"
)

// DefaultCapacity is the number of boats a collection holds unless
// configured otherwise.
const DefaultCapacity = types.DefaultCapacity

// MonthlyFeeRate is the factor applied to every balance by AccrueMonthlyFees.
var MonthlyFeeRate = decimal.RequireFromString("1.05")

// Collection errors.
var (
	ErrCapacityExceeded = errors.New("maximum number of boats reached")
	ErrNotFound         = errors.New("no boat with that name")
)

// PaymentStatus is the outcome of ApplyPayment.
type PaymentStatus int

const (
	// PaymentApplied means the amount was subtracted from the balance.
	PaymentApplied PaymentStatus = iota
	// PaymentDeclined means the amount was larger than the balance and
	// nothing changed.
	PaymentDeclined
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentApplied:
		return "applied"
	case PaymentDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// PaymentResult reports what ApplyPayment did. Owed is the balance after
// the call: the reduced balance when applied, the unchanged one when declined.
type PaymentResult struct {
	Status PaymentStatus
	Name   string
	Owed   decimal.Decimal
}

// Collection is an ordered sequence of boats. It owns its records; List
// returns copies. The zero value is not usable; call New.
type Collection struct {
	boats    []types.Boat
	capacity int
	parse    func(string) (*types.Boat, error)
}

// Option configures a Collection.
type Option func(*Collection)

// WithCapacity sets the maximum number of boats. Zero or less means
// unbounded.
func WithCapacity(n int) Option {
	return func(c *Collection) {
		if n < 0 {
			n = 0
		}
		c.capacity = n
	}
}

// WithParser sets the line decoder AddLine uses. The default is
// types.ParseLine.
func WithParser(parse func(string) (*types.Boat, error)) Option {
	return func(c *Collection) {
		if parse != nil {
			c.parse = parse
		}
	}
}

// New returns an empty collection with DefaultCapacity unless overridden.
func New(opts ...Option) *Collection {
	c := &Collection{capacity: DefaultCapacity, parse: types.ParseLine}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of boats.
func (c *Collection) Len() int { return len(c.boats) }

// Cap returns the capacity bound, or 0 when unbounded.
func (c *Collection) Cap() int { return c.capacity }

// Full reports whether another Add would fail with ErrCapacityExceeded.
func (c *Collection) Full() bool {
	return c.capacity > 0 && len(c.boats) >= c.capacity
}

// Add appends a boat. Order is not maintained until the next sort.
// Returns ErrCapacityExceeded when the collection is full.
func (c *Collection) Add(b types.Boat) error {
	if c.Full() {
		return ErrCapacityExceeded
	}
	if err := b.Validate(); err != nil {
		return err
	}
	c.boats = append(c.boats, b)
	return nil
}

// AddLine parses an inventory line with the collection's parser and adds
// the boat it describes. The capacity check runs before parsing, so a full
// collection reports ErrCapacityExceeded even for a bad line.
func (c *Collection) AddLine(line string) (types.Boat, error) {
	if c.Full() {
		return types.Boat{}, ErrCapacityExceeded
	}
	b, err := c.parse(line)
	if err != nil {
		return types.Boat{}, fmt.Errorf("parse boat: %w", err)
	}
	if err := c.Add(*b); err != nil {
		return types.Boat{}, err
	}
	return *b, nil
}

// FindByName returns the index of the first boat whose name equals name,
// ignoring case.
func (c *Collection) FindByName(name string) (int, bool) {
	for i := range c.boats {
		if strings.EqualFold(c.boats[i].Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Get returns a copy of the first boat matching name.
func (c *Collection) Get(name string) (types.Boat, error) {
	i, ok := c.FindByName(name)
	if !ok {
		return types.Boat{}, ErrNotFound
	}
	return c.boats[i], nil
}

// Remove deletes the first boat matching name by moving the last boat into
// its slot, then sorts the whole collection by name. The collection is
// always sorted after a successful Remove.
// Returns the removed boat, or ErrNotFound.
func (c *Collection) Remove(name string) (types.Boat, error) {
	i, ok := c.FindByName(name)
	if !ok {
		return types.Boat{}, ErrNotFound
	}
	removed := c.boats[i]
	last := len(c.boats) - 1
	c.boats[i] = c.boats[last]
	c.boats[last] = types.Boat{}
	c.boats = c.boats[:last]
	c.SortByName()
	return removed, nil
}

// ApplyPayment subtracts amount from the balance of the first boat matching
// name. The amount is rounded to cents first. An amount larger than the
// balance is declined, not an error: the result carries PaymentDeclined and
// the unchanged balance.
// Returns ErrNotFound when no boat matches and types.ErrInvalidAmount for a
// negative amount.
func (c *Collection) ApplyPayment(name string, amount decimal.Decimal) (PaymentResult, error) {
	if amount.IsNegative() {
		return PaymentResult{}, fmt.Errorf("%w: %s is negative", types.ErrInvalidAmount, amount)
	}
	i, ok := c.FindByName(name)
	if !ok {
		return PaymentResult{}, ErrNotFound
	}
	amount = amount.Round(types.OwedPlaces)
	b := &c.boats[i]
	if amount.GreaterThan(b.Owed) {
		return PaymentResult{Status: PaymentDeclined, Name: b.Name, Owed: b.Owed}, nil
	}
	b.Owed = b.Owed.Sub(amount)
	return PaymentResult{Status: PaymentApplied, Name: b.Name, Owed: b.Owed}, nil
}

// AccrueMonthlyFees multiplies every balance by MonthlyFeeRate and rounds
// the result to cents, so the balance held is the one displayed and saved.
// Repeated calls compound on the rounded balance.
func (c *Collection) AccrueMonthlyFees() {
	for i := range c.boats {
		c.boats[i].Owed = c.boats[i].Owed.Mul(MonthlyFeeRate).Round(types.OwedPlaces)
	}
}

// SortByName orders boats by name, ascending, comparing bytes
// (case-sensitive). Boats with equal names keep their relative order.
func (c *Collection) SortByName() {
	sort.SliceStable(c.boats, func(i, j int) bool {
		return c.boats[i].Name < c.boats[j].Name
	})
}

// Sorted reports whether the boats are in SortByName order.
func (c *Collection) Sorted() bool {
	return sort.SliceIsSorted(c.boats, func(i, j int) bool {
		return c.boats[i].Name < c.boats[j].Name
	})
}

// List returns a copy of the boats in current order.
func (c *Collection) List() []types.Boat {
	out := make([]types.Boat, len(c.boats))
	copy(out, c.boats)
	return out
}

// Each calls fn for every boat in current order and stops at the first error.
func (c *Collection) Each(fn func(types.Boat) error) error {
	for _, b := range c.boats {
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops every boat.
func (c *Collection) Reset() {
	clear(c.boats)
	c.boats = c.boats[:0]
}
