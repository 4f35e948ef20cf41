package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	AppDataDir(appName string) (string, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// AppDataDir returns the per-application directory inside the config dir.
func (service *platformService) AppDataDir(appName string) (string, error) {
	if appName == "" {
		return "", fmt.Errorf("app data dir: app name is empty")
	}
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("app data dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}
