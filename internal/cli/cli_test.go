package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/berths/internal/fleet"
	"github.com/mesh-intelligence/berths/pkg/types"
)

const seedInventory = "Jonny,50,storage,3,50.00\nBig Brother,20,slip,27,1200.00\n"

type env struct {
	configDir string
	dataFile  string
}

// newEnv creates a config dir and a seeded inventory file and clears any
// MARINA_* variables from the test process.
func newEnv(t *testing.T, inventory string) env {
	t.Helper()
	for _, key := range []string{"MARINA_CONFIG_DIR", "MARINA_DATA_FILE", "MARINA_CAPACITY", "MARINA_STRICT", "MARINA_LEDGER", "MARINA_DEBUG"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	e := env{
		configDir: filepath.Join(dir, "config"),
		dataFile:  filepath.Join(dir, "BoatData.csv"),
	}
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	if inventory != "" {
		require.NoError(t, os.WriteFile(e.dataFile, []byte(inventory), 0o644))
	}
	return e
}

// run executes the root command in-process and returns stdout.
func (e env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-file", e.dataFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e env) inventory(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.dataFile)
	require.NoError(t, err)
	return string(data)
}

func (e env) writeConfig(t *testing.T, yaml string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(yaml), 0o644))
}

func TestVersion(t *testing.T) {
	e := newEnv(t, "")
	out, err := e.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "marina v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	e := newEnv(t, "")
	e.configDir = filepath.Join(t.TempDir(), "fresh")

	out, err := e.run(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, e.dataFile)

	cfg, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "data_file: "+e.dataFile)
	assert.Contains(t, string(cfg), fmt.Sprintf("capacity: %d", types.DefaultCapacity))
	assert.NotContains(t, string(cfg), "save_file")

	assert.Empty(t, e.inventory(t))

	// A second init leaves existing files alone.
	require.NoError(t, os.WriteFile(e.dataFile, []byte(seedInventory), 0o644))
	_, err = e.run(t, "", "init")
	require.NoError(t, err)
	assert.Equal(t, seedInventory, e.inventory(t))
}

func TestList(t *testing.T) {
	e := newEnv(t, seedInventory)
	out, err := e.run(t, "", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Amount Owed")
	assert.Less(t, strings.Index(out, "Big Brother"), strings.Index(out, "Jonny"))
	assert.Equal(t, seedInventory, e.inventory(t), "list does not rewrite the inventory")
}

func TestOneShotCommands(t *testing.T) {
	e := newEnv(t, seedInventory)

	out, err := e.run(t, "", "add", "Sea Breeze,18,trailor,MX2345,99.99")
	require.NoError(t, err)
	assert.Contains(t, out, "Boat 'Sea Breeze' added.")

	out, err = e.run(t, "", "pay", "jonny", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Jonny owes $30.00")

	out, err = e.run(t, "", "accrue")
	require.NoError(t, err)
	assert.Contains(t, out, "Monthly fees applied.")

	out, err = e.run(t, "", "remove", "BIG BROTHER")
	require.NoError(t, err)
	assert.Contains(t, out, "Boat 'Big Brother' removed.")

	assert.Equal(t, "Jonny,50,storage,3,31.50\nSea Breeze,18,trailor,MX2345,104.99\n", e.inventory(t))
}

func TestSaveFileFlag(t *testing.T) {
	e := newEnv(t, seedInventory)
	saveFile := filepath.Join(filepath.Dir(e.dataFile), "out.csv")

	_, err := e.run(t, "", "--save-file", saveFile, "accrue")
	require.NoError(t, err)

	assert.Equal(t, seedInventory, e.inventory(t))
	data, err := os.ReadFile(saveFile)
	require.NoError(t, err)
	assert.Equal(t, "Jonny,50,storage,3,52.50\nBig Brother,20,slip,27,1260.00\n", string(data))
}

func TestUserErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"remove unknown boat", []string{"remove", "Nobody"}, fleet.ErrNotFound},
		{"pay unknown boat", []string{"pay", "Nobody", "1"}, fleet.ErrNotFound},
		{"pay more than owed", []string{"pay", "Jonny", "50.01"}, errPaymentDeclined},
		{"pay negative", []string{"pay", "Jonny", "-1"}, types.ErrInvalidAmount},
		{"pay garbage", []string{"pay", "Jonny", "lots"}, types.ErrInvalidAmount},
		{"add unknown place", []string{"add", "Docked,10,dock,1,0"}, types.ErrUnknownPlaceType},
		{"add short record", []string{"add", "Short,10"}, types.ErrMalformedRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, seedInventory)
			_, err := e.run(t, "", tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, exitUserError, exitCode(err))
			assert.Equal(t, seedInventory, e.inventory(t), "failed commands leave the inventory alone")
		})
	}
}

func TestMissingInventoryIsSystemError(t *testing.T) {
	e := newEnv(t, "")
	_, err := e.run(t, "", "list")
	require.Error(t, err)
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestCapacityFromEnv(t *testing.T) {
	e := newEnv(t, seedInventory)
	t.Setenv("MARINA_CAPACITY", "2")

	_, err := e.run(t, "", "add", "Third,10,slip,1,0")
	require.ErrorIs(t, err, fleet.ErrCapacityExceeded)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestConfigBeatsEnv(t *testing.T) {
	e := newEnv(t, seedInventory)
	e.writeConfig(t, "capacity: 3\n")
	t.Setenv("MARINA_CAPACITY", "2")

	_, err := e.run(t, "", "add", "Third,10,slip,1,0")
	require.NoError(t, err)

	_, err = e.run(t, "", "add", "Fourth,10,slip,2,0")
	require.ErrorIs(t, err, fleet.ErrCapacityExceeded)
}

func TestEnvFillsUnsetConfigKeys(t *testing.T) {
	e := newEnv(t, seedInventory)
	e.writeConfig(t, "capacity: 3\n")
	t.Setenv("MARINA_STRICT", "true")

	_, err := e.run(t, "", "add", "Loose,10,slip,abc,0")
	require.ErrorIs(t, err, types.ErrMalformedRecord)
}

func TestStrictFromConfig(t *testing.T) {
	e := newEnv(t, seedInventory)
	e.writeConfig(t, "strict: true\n")

	_, err := e.run(t, "", "add", "Loose,10,slip,abc,0")
	require.ErrorIs(t, err, types.ErrMalformedRecord)

	// The flag overrides config.yaml.
	_, err = e.run(t, "", "--strict=false", "add", "Loose,10,slip,abc,0")
	require.NoError(t, err)
	assert.Contains(t, e.inventory(t), "Loose,10,slip,0,0.00")
}

func TestShellIsDefault(t *testing.T) {
	e := newEnv(t, seedInventory)

	out, err := e.run(t, "m\nx\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to the Boat Management System")
	assert.Contains(t, out, "Exiting the Boat Management System")
	assert.Equal(t, "Jonny,50,storage,3,52.50\nBig Brother,20,slip,27,1260.00\n", e.inventory(t))

	out, err = e.run(t, "x\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Exiting the Boat Management System")
}

func TestHistory(t *testing.T) {
	e := newEnv(t, seedInventory)
	e.writeConfig(t, "ledger: ledger.db\n")

	_, err := e.run(t, "", "pay", "Jonny", "20")
	require.NoError(t, err)
	_, err = e.run(t, "", "pay", "Jonny", "500")
	require.ErrorIs(t, err, errPaymentDeclined)
	_, err = e.run(t, "", "remove", "Big Brother")
	require.NoError(t, err)

	out, err := e.run(t, "", "history", "jonny")
	require.NoError(t, err)
	assert.Contains(t, out, "payment")
	assert.Contains(t, out, "declined")
	assert.NotContains(t, out, "Big Brother")

	out, err = e.run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Big Brother")
	assert.Contains(t, out, "remove")

	assert.FileExists(t, filepath.Join(e.configDir, "ledger.db"))
}

func TestHistoryWithoutLedger(t *testing.T) {
	e := newEnv(t, seedInventory)
	_, err := e.run(t, "", "history")
	require.ErrorIs(t, err, errLedgerDisabled)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitSysError, exitCode(errors.New("disk on fire")))
	assert.Equal(t, exitUserError, exitCode(fmt.Errorf("parse boat: %w", types.ErrMalformedRecord)))
}
