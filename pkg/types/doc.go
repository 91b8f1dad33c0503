// Package types defines the berth inventory record model: place types, the
// placement variants, the Boat record with its line codec, session Config,
// and the package's sentinel errors.
package types
