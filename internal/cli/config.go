// Config loading for the marina CLI.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/berths/internal/paths"
	"github.com/mesh-intelligence/berths/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "MARINA"

	cfgKeyDataFile = "data_file"
	cfgKeySaveFile = "save_file"
	cfgKeyCapacity = "capacity"
	cfgKeyStrict   = "strict"
	cfgKeyLedger   = "ledger"
	cfgKeyDebug    = "debug"
)

// settings is the fully resolved configuration for one invocation.
type settings struct {
	configDir string
	cfg       types.Config
	debug     bool
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; defaults apply. Capacity, strict, ledger and
// debug fall back to MARINA_* environment variables only when config.yaml
// does not set them, matching the data file chain in package paths.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyCapacity, types.DefaultCapacity)
	v.SetDefault(cfgKeyStrict, false)
	v.SetDefault(cfgKeyDebug, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Viper ranks bound env above the config file, so bind only the keys
	// config.yaml leaves unset.
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyCapacity, cfgKeyStrict, cfgKeyLedger, cfgKeyDebug} {
		if v.InConfig(key) {
			continue
		}
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	return v, nil
}

// resolveSettings combines flags, config.yaml, environment and defaults.
// Every setting follows flag > config.yaml > MARINA_* env > default.
func (a *app) resolveSettings(cmd *cobra.Command) (settings, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataFile, err := paths.ResolveDataFile(a.flags.dataFile, v.GetString(cfgKeyDataFile))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data file: %w", err)
	}
	saveFile, err := paths.ResolveSaveFile(a.flags.saveFile, v.GetString(cfgKeySaveFile), dataFile)
	if err != nil {
		return settings{}, fmt.Errorf("resolve save file: %w", err)
	}

	ledgerPath := v.GetString(cfgKeyLedger)
	if ledgerPath != "" && !filepath.IsAbs(ledgerPath) {
		ledgerPath = filepath.Join(configDir, ledgerPath)
	}

	strict := v.GetBool(cfgKeyStrict)
	if cmd.Flags().Changed("strict") {
		strict = a.flags.strict
	}
	debug := v.GetBool(cfgKeyDebug)
	if cmd.Flags().Changed("debug") {
		debug = a.flags.debug
	}

	cfg := types.Config{
		DataFile: dataFile,
		SaveFile: saveFile,
		Capacity: v.GetInt(cfgKeyCapacity),
		Strict:   strict,
		Ledger:   ledgerPath,
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid config: %w", err)
	}

	return settings{configDir: configDir, cfg: cfg, debug: debug}, nil
}
