// Package cliconfig loads and persists clipctl configuration from a TOML
// file under the platform config directory.
package cliconfig

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

var (
	configDir      string
	configFilePath string
	tokenPath      string
)

// getConfigDir returns the platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "clipstream", "clipctl"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "clipstream", "clipctl"), nil
}

// Init loads configuration, creating the config directory on first run. An
// empty configPath uses the platform default location.
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	tokenPath = filepath.Join(configDir, "token")

	viper.SetConfigType("toml")
	setDefaults()

	viper.SetConfigFile(configFilePath)
	_ = viper.ReadInConfig()

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("output.format", "text")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "clipctl.log"))
}

// GetString returns a string configuration value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// SetString persists a string configuration value
func SetString(key string, value string) error {
	viper.Set(key, value)
	if err := viper.WriteConfig(); err != nil {
		return viper.SafeWriteConfig()
	}
	return nil
}

// Token returns the stored bearer token, empty when not logged in
func Token() string {
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return ""
	}
	return string(data)
}

// SaveToken stores the bearer token with owner-only permissions
func SaveToken(token string) error {
	return os.WriteFile(tokenPath, []byte(token), 0600)
}

// ClearToken removes the stored token
func ClearToken() error {
	err := os.Remove(tokenPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}
