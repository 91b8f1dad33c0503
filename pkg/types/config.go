package types

import "errors"

// Config holds the resolved settings for an inventory session.
type Config struct {
	// DataFile is the inventory file loaded at startup.
	DataFile string `json:"data_file" yaml:"data_file"`

	// SaveFile is where the inventory is written on exit. Empty means DataFile.
	SaveFile string `json:"save_file,omitempty" yaml:"save_file,omitempty"`

	// Capacity bounds the number of boats. Zero means unbounded.
	Capacity int `json:"capacity" yaml:"capacity"`

	// Strict rejects lines the permissive decoder would accept with defaults.
	Strict bool `json:"strict" yaml:"strict"`

	// Ledger is the path of the SQLite audit journal. Empty disables it.
	Ledger string `json:"ledger,omitempty" yaml:"ledger,omitempty"`
}

// Defaults.
const (
	DefaultDataFile = "BoatData.csv"
	DefaultCapacity = 120
)

// Config validation errors.
var (
	ErrDataFileEmpty   = errors.New("data file must not be empty")
	ErrCapacityInvalid = errors.New("capacity must not be negative")
)

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.DataFile == "" {
		return ErrDataFileEmpty
	}
	if c.Capacity < 0 {
		return ErrCapacityInvalid
	}
	return nil
}

// OutputFile returns the file the inventory is saved to.
func (c Config) OutputFile() string {
	if c.SaveFile != "" {
		return c.SaveFile
	}
	return c.DataFile
}
