package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxNameLen is the longest boat name, in bytes, the inventory accepts.
const MaxNameLen = 127

// OwedPlaces is the number of decimal places a balance is kept and written
// with.
const OwedPlaces = 2

// fieldCount is the number of comma-separated fields in an inventory line.
const fieldCount = 5

// Boat is one berth record: the boat's name, its length in feet, where it is
// kept and the balance owed. Name is the business key but is not unique.
type Boat struct {
	Name      string
	Length    float64
	Placement Placement
	Owed      decimal.Decimal
}

// ParseLine decodes an inventory line of the form
//
//	name,length,place-type,extra,owed
//
// Fewer than five fields, or a length or owed that is not a number, returns
// ErrMalformedRecord. An unknown place type returns ErrUnknownPlaceType.
// Owed is rounded to OwedPlaces, half away from zero.
// Names cannot contain commas; the format has no escaping.
func ParseLine(line string) (*Boat, error) {
	return parseLine(line, DecodePlacement, false)
}

// ParseLineStrict is ParseLine with strict placement decoding. It also
// rejects non-positive lengths and negative balances.
func ParseLineStrict(line string) (*Boat, error) {
	return parseLine(line, DecodePlacementStrict, true)
}

func parseLine(line string, decode func(token, raw string) (Placement, error), strict bool) (*Boat, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, ",", fieldCount)
	if len(fields) < fieldCount {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, fieldCount, len(fields))
	}

	name := fields[0]
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	length, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: length %q", ErrMalformedRecord, fields[1])
	}

	placement, err := decode(fields[2], fields[3])
	if err != nil {
		return nil, err
	}

	owed, err := decimal.NewFromString(strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, fmt.Errorf("%w: owed %q", ErrMalformedRecord, fields[4])
	}
	owed = owed.Round(OwedPlaces)

	if strict {
		if length <= 0 {
			return nil, fmt.Errorf("%w: length must be positive", ErrMalformedRecord)
		}
		if owed.IsNegative() {
			return nil, fmt.Errorf("%w: owed must not be negative", ErrMalformedRecord)
		}
	}

	return &Boat{
		Name:      name,
		Length:    length,
		Placement: placement,
		Owed:      owed,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, MaxNameLen)
	}
	return nil
}

// FormatLine encodes the boat as an inventory line. Length is written as a
// whole number and owed with exactly two decimals, so fractional lengths do
// not survive a round trip.
func (b *Boat) FormatLine() string {
	token, field := b.Placement.Encode()
	return fmt.Sprintf("%s,%.0f,%s,%s,%s", b.Name, b.Length, token, field, b.Owed.StringFixed(OwedPlaces))
}

// Equal reports whether two boats hold the same values. Owed is compared
// numerically, so 50 and 50.00 are equal.
func (b *Boat) Equal(o *Boat) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Name == o.Name &&
		b.Length == o.Length &&
		b.Placement == o.Placement &&
		b.Owed.Equal(o.Owed)
}

// Validate checks the fields a record needs before it can be stored and
// written back out.
func (b *Boat) Validate() error {
	if err := validateName(b.Name); err != nil {
		return err
	}
	if b.Placement == nil {
		return fmt.Errorf("%w: missing placement", ErrMalformedRecord)
	}
	return nil
}
