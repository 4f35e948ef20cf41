package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"focusclock/internal/core/model"
	"focusclock/internal/ui/preferences"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. FOCUSCLOCK_FOCUS_MINUTES.
const EnvPrefix = "FOCUSCLOCK"

type fileSettings struct {
	FocusMinutes        int    `mapstructure:"focus_minutes"`
	BreakMinutes        int    `mapstructure:"break_minutes"`
	LongBreakMinutes    int    `mapstructure:"long_break_minutes"`
	SoundEnabled        bool   `mapstructure:"sound_enabled"`
	SystemNotifications string `mapstructure:"system_notifications"`
}

// LoadSettings reads the optional config.yaml in dir, then applies
// FOCUSCLOCK_* environment overrides. FOCUSCLOCK_CONFIG names another file.
// The file is never written by the application.
func LoadSettings(dir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	v := viper.New()
	v.SetDefault("focus_minutes", int(settings.Focus/time.Minute))
	v.SetDefault("break_minutes", int(settings.Break/time.Minute))
	v.SetDefault("long_break_minutes", int(settings.LongBreak/time.Minute))
	v.SetDefault("sound_enabled", settings.SoundEnabled)
	v.SetDefault("system_notifications", string(settings.SystemNotifications))

	v.SetConfigType("yaml")
	if cfgPath := os.Getenv(EnvPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := v.ReadInConfig()
	if readErr != nil && isMissingConfig(readErr) {
		readErr = nil
	}

	var fileData fileSettings
	if err := v.Unmarshal(&fileData); err != nil {
		return settings, fmt.Errorf("unmarshal settings: %w", err)
	}
	applyFileSettings(&settings, fileData)

	if readErr != nil {
		return settings, fmt.Errorf("read settings file: %w", readErr)
	}
	return settings, nil
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func applyFileSettings(settings *preferences.Settings, fileData fileSettings) {
	if fileData.FocusMinutes > 0 {
		settings.Focus = time.Duration(fileData.FocusMinutes) * time.Minute
	}
	if fileData.BreakMinutes > 0 {
		settings.Break = time.Duration(fileData.BreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreak = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	settings.SoundEnabled = fileData.SoundEnabled

	switch model.Permission(strings.ToLower(strings.TrimSpace(fileData.SystemNotifications))) {
	case model.PermissionGranted:
		settings.SystemNotifications = model.PermissionGranted
	case model.PermissionDenied:
		settings.SystemNotifications = model.PermissionDenied
	default:
		settings.SystemNotifications = model.PermissionUndetermined
	}
}
