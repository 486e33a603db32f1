// Config loading for the codelink CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/petrel-data/codelink/pkg/codelink"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyURLTemplate = "url_template"

	defaultBackend = "sqlite"

	// envURLTemplate overrides the editor URL template when no flag or
	// config value is set.
	envURLTemplate = "CODELINK_URL_TEMPLATE"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Codelink CLI configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Editor URL template for resolve. {FILE} and {LINE} are substituted
# with the source location's path and line number.
# url_template: vscode://file/{FILE}:{LINE}
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	URLTemplate string `yaml:"url_template,omitempty"`
}

// persistDataDir records the data directory chosen via --data-dir in
// config.yaml so later runs find it without the flag. Only an untouched
// default config.yaml is rewritten; hand-edited files are left alone.
func persistDataDir(configDir, dataDir string) error {
	path := filepath.Join(configDir, configFileExt)

	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read config file: %w", err)
	}
	if err == nil && string(current) != defaultConfigYAML {
		return nil
	}

	out, err := yaml.Marshal(configFile{
		Backend: defaultBackend,
		DataDir: dataDir,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

// resolveURLTemplate returns the editor URL template with precedence:
// --template flag > config.yaml url_template > CODELINK_URL_TEMPLATE env >
// built-in default.
func resolveURLTemplate(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if configURLTemplate != "" {
		return configURLTemplate
	}
	if env := os.Getenv(envURLTemplate); env != "" {
		return env
	}
	return codelink.DefaultURLTemplate
}
