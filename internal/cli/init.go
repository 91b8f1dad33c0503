package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/berths/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	DataFile string `yaml:"data_file"`
	SaveFile string `yaml:"save_file,omitempty"`
	Capacity int    `yaml:"capacity"`
	Strict   bool   `yaml:"strict"`
	Ledger   string `yaml:"ledger,omitempty"`
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create config.yaml and an empty inventory file",
		Long: `Create the configuration directory with a default config.yaml and an empty
inventory file at the resolved data file path. Existing files are left alone.`,
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	s := a.settings

	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	configPath := filepath.Join(s.configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, s.cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if err := createIfMissing(s.cfg.DataFile); err != nil {
		return fmt.Errorf("create inventory: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config:    %s\n", configPath)
	fmt.Fprintf(out, "inventory: %s\n", s.cfg.DataFile)
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. An existing file is left unchanged.
func writeConfigIfMissing(path string, cfg types.Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(&configFile{
		DataFile: cfg.DataFile,
		SaveFile: saveFileSetting(cfg),
		Capacity: cfg.Capacity,
		Strict:   cfg.Strict,
		Ledger:   cfg.Ledger,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// saveFileSetting returns the save file to record, omitting it when it is
// the data file.
func saveFileSetting(cfg types.Config) string {
	if cfg.SaveFile == cfg.DataFile {
		return ""
	}
	return cfg.SaveFile
}

func createIfMissing(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.Close()
}
