package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/hello/internal/paths"
	"github.com/mesh-intelligence/hello/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "HELLO"

	// Config keys.
	cfgKeyName      = "name"
	cfgKeyGreeting  = "greeting"
	cfgKeyUppercase = "uppercase"
	cfgKeyDataDir   = "data_dir"
)

// loadConfig reads config.yaml from configDir with HELLO_NAME,
// HELLO_GREETING and HELLO_UPPERCASE overrides. data_dir is read from the
// file only; HELLO_DATA_DIR is applied by paths.ResolveDataDir after it.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyName, cfgKeyGreeting, cfgKeyUppercase} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// greeterConfig extracts the greeter fields from v. Only keys present in
// the file or environment are set, so absent keys keep the library
// defaults.
func greeterConfig(v *viper.Viper) *types.Config {
	cfg := &types.Config{}
	if v.IsSet(cfgKeyName) {
		cfg.Name = types.Ptr(v.GetString(cfgKeyName))
	}
	if v.IsSet(cfgKeyGreeting) {
		cfg.Greeting = types.Ptr(v.GetString(cfgKeyGreeting))
	}
	if v.IsSet(cfgKeyUppercase) {
		cfg.Uppercase = types.Ptr(v.GetBool(cfgKeyUppercase))
	}
	return cfg
}

// settings holds the resolved directories and greeter config for a
// command invocation.
type settings struct {
	configDir string
	dataDir   string
	greeter   *types.Config
}

// loadSettings resolves directories and reads the config file.
func loadSettings() (*settings, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, sysError("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, userError("load config %s: %w", configDir, err)
	}

	dataDir, err := resolveDataDir(v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, sysError("resolve data dir: %w", err)
	}

	s := &settings{
		configDir: configDir,
		dataDir:   dataDir,
		greeter:   greeterConfig(v),
	}
	logger.Debug("Loaded settings",
		zap.String("config_dir", configDir),
		zap.String("config_file", v.ConfigFileUsed()),
		zap.String("data_dir", dataDir))
	return s, nil
}

// greeterFlags are the per-command overrides for greeter fields.
type greeterFlags struct {
	name      string
	greeting  string
	uppercase bool
}

func (f *greeterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "name to greet (default from config, then \""+types.DefaultName+"\")")
	cmd.Flags().StringVar(&f.greeting, "greeting", "", "greeting template (default from config, then \""+types.DefaultGreeting+"\")")
	cmd.Flags().BoolVar(&f.uppercase, "uppercase", false, "upper-case the rendered greeting")
}

// overrides returns a Config holding only the flags the user set.
func (f *greeterFlags) overrides(cmd *cobra.Command) *types.Config {
	cfg := &types.Config{}
	if cmd.Flags().Changed("name") {
		cfg.Name = types.Ptr(f.name)
	}
	if cmd.Flags().Changed("greeting") {
		cfg.Greeting = types.Ptr(f.greeting)
	}
	if cmd.Flags().Changed("uppercase") {
		cfg.Uppercase = types.Ptr(f.uppercase)
	}
	return cfg
}

// configPath returns the config.yaml path inside configDir.
func configPath(configDir string) string {
	return filepath.Join(configDir, paths.ConfigFileName)
}
