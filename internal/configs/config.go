package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Share policy applied when the config file does not override it.
const (
	DefaultSharesTotal     = 3
	DefaultSharesThreshold = 2
)

type UserConfig struct {
	Install  Install  `toml:"install"`
	Defaults Defaults `toml:"defaults"`
}

type Install struct {
	UUID string `toml:"install_uuid"`
}

type Defaults struct {
	SharesTotal     int    `toml:"shares_total"`
	SharesThreshold int    `toml:"shares_threshold"`
	OutputDir       string `toml:"output_dir"`
}

// ConfigPath returns the path to the user config file.
func ConfigPath() string {
	return filepath.Join(UserFracturedSettings.UserConfigsPath, "config.toml")
}

// LoadUserConfig loads the user configuration from the config file.
// A missing file yields a config populated with the default share policy.
func LoadUserConfig() (*UserConfig, error) {
	config := &UserConfig{
		Defaults: Defaults{
			SharesTotal:     DefaultSharesTotal,
			SharesThreshold: DefaultSharesThreshold,
		},
	}

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := loadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	// Guard against a hand-edited file zeroing the policy.
	if config.Defaults.SharesTotal == 0 {
		config.Defaults.SharesTotal = DefaultSharesTotal
	}
	if config.Defaults.SharesThreshold == 0 {
		config.Defaults.SharesThreshold = DefaultSharesThreshold
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	if err := saveTOML(ConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// GenerateInstallUUID generates a new UUID identifying this install.
func GenerateInstallUUID() string {
	return uuid.New().String()
}

// EnsureUserConfig ensures the user configuration exists and has an
// install UUID, creating and persisting it on first use.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}

	if config.Install.UUID == "" {
		config.Install.UUID = GenerateInstallUUID()
		if err := SaveUserConfig(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// saveTOML saves a struct to a TOML file, creating parent directories.
func saveTOML(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0700); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(data)
}

// loadTOML loads a TOML file into a struct.
func loadTOML(filePath string, data interface{}) error {
	_, err := toml.DecodeFile(filePath, data)
	return err
}
