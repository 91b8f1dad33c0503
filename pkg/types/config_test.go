package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty data file returns ErrDataFileEmpty",
			config:  Config{DataFile: "", Capacity: DefaultCapacity},
			wantErr: ErrDataFileEmpty,
		},
		{
			name:    "negative capacity returns ErrCapacityInvalid",
			config:  Config{DataFile: DefaultDataFile, Capacity: -1},
			wantErr: ErrCapacityInvalid,
		},
		{
			name:    "default config",
			config:  Config{DataFile: DefaultDataFile, Capacity: DefaultCapacity},
			wantErr: nil,
		},
		{
			name:    "zero capacity means unbounded",
			config:  Config{DataFile: DefaultDataFile, Capacity: 0},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigOutputFile(t *testing.T) {
	c := Config{DataFile: "BoatData.csv"}
	if got := c.OutputFile(); got != "BoatData.csv" {
		t.Fatalf("expected data file, got %q", got)
	}

	c.SaveFile = "newboats.csv"
	if got := c.OutputFile(); got != "newboats.csv" {
		t.Fatalf("expected save file, got %q", got)
	}
}
