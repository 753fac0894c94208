package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hello/internal/sqlite"
	"github.com/mesh-intelligence/hello/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Name      string `yaml:"name"`
	Greeting  string `yaml:"greeting"`
	Uppercase bool   `yaml:"uppercase"`
	DataDir   string `yaml:"data_dir,omitempty"`
}

const configHeader = "# hello CLI configuration. Flags on \"hello greet\" override these values.\n"

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the greeting journal",
		Long:  "Create the configuration directory with a default config.yaml, then create the journal database.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}

	// Only pin data_dir in the file when the user chose one.
	pinned := ""
	if flags.dataDir != "" {
		pinned = s.dataDir
	}

	path := configPath(s.configDir)
	written, err := writeConfigIfMissing(path, pinned)
	if err != nil {
		return sysError("write config: %w", err)
	}

	journal := sqlite.NewBackend()
	if err := journal.Attach(s.dataDir); err != nil {
		return sysError("initialize journal: %w", err)
	}
	if err := journal.Detach(); err != nil {
		return sysError("finalize journal: %w", err)
	}

	logger.Info("Initialized",
		zap.String("config", path),
		zap.Bool("config_written", written),
		zap.String("data_dir", s.dataDir))

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", path)
	} else {
		fmt.Fprintf(out, "Kept existing %s\n", path)
	}
	fmt.Fprintf(out, "Journal ready in %s\n", s.dataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether it wrote the file.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Name:      types.DefaultName,
		Greeting:  types.DefaultGreeting,
		Uppercase: types.DefaultUppercase,
		DataDir:   dataDir,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
