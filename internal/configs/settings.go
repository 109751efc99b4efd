package configs

import (
	"log"
	"os"
	"path/filepath"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
}

// UserFracturedSettings holds the per-user paths for config and data files.
// Tests may swap it for a sandboxed instance.
var UserFracturedSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	UserFracturedSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "fractured"),
		UserDataPath:    filepath.Join(dataDir, "fractured"),
	}
}
