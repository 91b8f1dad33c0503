package types

import "errors"

// Record decode errors.
var (
	ErrMalformedRecord  = errors.New("malformed record")
	ErrUnknownPlaceType = errors.New("unknown place type")
	ErrInvalidName      = errors.New("invalid name")
)

// Balance errors.
var (
	ErrInvalidAmount = errors.New("invalid amount")
)
