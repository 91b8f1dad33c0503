package types

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// PlaceType is the kind of mooring or storage a boat uses.
type PlaceType int

// Place types. The set is closed.
const (
	PlaceSlip PlaceType = iota
	PlaceLand
	PlaceTrailer
	PlaceStorage
)

// Place type tokens as written in the inventory file. The trailer token is
// spelled "trailor" on disk and must stay that way for existing files.
const (
	TokenSlip    = "slip"
	TokenLand    = "land"
	TokenTrailer = "trailor"
	TokenStorage = "storage"
)

// MaxTrailerTagLen is the longest license tag a trailer placement carries.
const MaxTrailerTagLen = 9

var placeTokens = map[string]PlaceType{
	TokenSlip:    PlaceSlip,
	TokenLand:    PlaceLand,
	TokenTrailer: PlaceTrailer,
	TokenStorage: PlaceStorage,
}

// ParsePlaceType maps a file token to its PlaceType. Matching is
// case-sensitive. Returns ErrUnknownPlaceType for anything else.
func ParsePlaceType(token string) (PlaceType, error) {
	pt, ok := placeTokens[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlaceType, token)
	}
	return pt, nil
}

// Token returns the on-disk token for the place type.
func (pt PlaceType) Token() string {
	switch pt {
	case PlaceSlip:
		return TokenSlip
	case PlaceLand:
		return TokenLand
	case PlaceTrailer:
		return TokenTrailer
	case PlaceStorage:
		return TokenStorage
	default:
		return ""
	}
}

// Label returns the display name used in inventory listings.
func (pt PlaceType) Label() string {
	switch pt {
	case PlaceSlip:
		return "Slip"
	case PlaceLand:
		return "Land"
	case PlaceTrailer:
		return "Trailor"
	case PlaceStorage:
		return "Storage"
	default:
		return "Unknown"
	}
}

func (pt PlaceType) String() string { return pt.Label() }

// Placement is the per-place-type payload of a boat. The concrete type is the
// discriminant: exactly one of Slip, Land, Trailer or Storage.
type Placement interface {
	// Type reports which variant this is.
	Type() PlaceType

	// Field returns the type-specific field exactly as it is written to the
	// inventory file.
	Field() string

	// Encode returns the place type token and the type-specific field.
	Encode() (token, field string)

	// String describes the placement for display, such as "Slip 27".
	String() string

	placement()
}

// Slip is a boat moored at a numbered slip.
type Slip struct {
	Number int
}

// Land is a boat kept on land in a lettered bay. Bay holds a single
// character, or a single raw byte when the field is not valid UTF-8, and is
// empty when the field was.
type Land struct {
	Bay string
}

// Trailer is a boat kept on a trailer identified by its license tag.
type Trailer struct {
	Tag string
}

// Storage is a boat held in a numbered storage space.
type Storage struct {
	Space int
}

func (Slip) Type() PlaceType    { return PlaceSlip }
func (Land) Type() PlaceType    { return PlaceLand }
func (Trailer) Type() PlaceType { return PlaceTrailer }
func (Storage) Type() PlaceType { return PlaceStorage }

func (p Slip) Field() string    { return strconv.Itoa(p.Number) }
func (p Land) Field() string    { return p.Bay }
func (p Storage) Field() string { return strconv.Itoa(p.Space) }
func (p Trailer) Field() string { return p.Tag }

func (p Slip) Encode() (string, string)    { return TokenSlip, p.Field() }
func (p Land) Encode() (string, string)    { return TokenLand, p.Field() }
func (p Trailer) Encode() (string, string) { return TokenTrailer, p.Field() }
func (p Storage) Encode() (string, string) { return TokenStorage, p.Field() }

func (p Slip) String() string    { return describe(p) }
func (p Land) String() string    { return describe(p) }
func (p Trailer) String() string { return describe(p) }
func (p Storage) String() string { return describe(p) }

func describe(p Placement) string {
	if f := p.Field(); f != "" {
		return p.Type().Label() + " " + f
	}
	return p.Type().Label()
}

func (Slip) placement()    {}
func (Land) placement()    {}
func (Trailer) placement() {}
func (Storage) placement() {}

// DecodePlacement builds the placement named by token from the raw
// type-specific field.
//
// Slip numbers and storage spaces are read like C atoi: the leading integer
// is used and a field with no leading digits decodes to 0. Land keeps the
// first character of the field, or its first byte when that byte does not
// start a valid UTF-8 sequence, so the bay is written back unchanged.
// Trailer tags are kept verbatim.
// An unrecognized token returns ErrUnknownPlaceType.
func DecodePlacement(token, raw string) (Placement, error) {
	pt, err := ParsePlaceType(token)
	if err != nil {
		return nil, err
	}
	switch pt {
	case PlaceSlip:
		return Slip{Number: atoi(raw)}, nil
	case PlaceLand:
		return Land{Bay: firstChar(raw)}, nil
	case PlaceTrailer:
		return Trailer{Tag: raw}, nil
	default:
		return Storage{Space: atoi(raw)}, nil
	}
}

// DecodePlacementStrict is DecodePlacement without the permissive fallbacks.
// Numeric fields must be whole integers, a bay must be exactly one character
// and a trailer tag must fit in MaxTrailerTagLen. Violations return
// ErrMalformedRecord.
func DecodePlacementStrict(token, raw string) (Placement, error) {
	pt, err := ParsePlaceType(token)
	if err != nil {
		return nil, err
	}
	switch pt {
	case PlaceSlip, PlaceStorage:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s field %q is not an integer", ErrMalformedRecord, token, raw)
		}
		if pt == PlaceSlip {
			return Slip{Number: n}, nil
		}
		return Storage{Space: n}, nil
	case PlaceLand:
		if utf8.RuneCountInString(raw) != 1 {
			return nil, fmt.Errorf("%w: bay %q must be a single character", ErrMalformedRecord, raw)
		}
		return Land{Bay: raw}, nil
	default:
		if raw == "" || len(raw) > MaxTrailerTagLen {
			return nil, fmt.Errorf("%w: trailer tag %q must be 1-%d characters", ErrMalformedRecord, raw, MaxTrailerTagLen)
		}
		return Trailer{Tag: raw}, nil
	}
}

// firstChar returns the first UTF-8 character of s, or its first byte when
// s does not start with a valid encoding.
func firstChar(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// atoi parses the leading integer of s, skipping leading whitespace, and
// returns 0 when there is none.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
