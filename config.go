package calcline

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/calcline/format"
)

// DefaultSettingsYaml is the embedded fallback written to a fresh
// ~/.config/calcline/settings.yaml the first time no config file exists.
const DefaultSettingsYaml = `
precision: -1
angle_unit: 0
decimal_separator: "."
group_separator: " "
group_size: "3"
date_template: "YYYY-MM-DD DDD"
time_format: "24h"
date_time_order: "{date} {time}"
imperial_variant: "us"
unit_display: "symbol"
`

// SettingsPath returns the XDG config-file path for calcline's persisted
// settings.
func SettingsPath() (string, error) {
	path := filepath.Join("calcline", "settings.yaml")
	return xdg.ConfigFile(path)
}

// LoadOrCreateSettings loads settings.yaml from the XDG config path if it
// exists, or writes and returns the embedded default otherwise.
func LoadOrCreateSettings(forceDefault bool) (format.Settings, error) {
	if forceDefault {
		return unmarshalSettings([]byte(DefaultSettingsYaml))
	}

	path, err := SettingsPath()
	if err != nil {
		return format.Settings{}, errors.Wrap(err, "resolving settings path")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := saveDefaultSettings(path); err != nil {
			return format.Settings{}, errors.Wrapf(err, "writing default settings to %q", path)
		}
		return unmarshalSettings([]byte(DefaultSettingsYaml))
	} else if err != nil {
		return format.Settings{}, errors.Wrapf(err, "loading settings from %q", path)
	}

	return unmarshalSettings(data)
}

// SaveSettings writes s to the XDG config path as YAML.
func SaveSettings(s format.Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return errors.Wrap(err, "resolving settings path")
	}
	return saveSettingsTo(path, s)
}

func saveDefaultSettings(path string) error {
	return os.WriteFile(path, []byte(DefaultSettingsYaml), 0644)
}

func saveSettingsTo(path string, s format.Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "yaml.Marshal")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "os.MkdirAll")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing settings to %q", path)
	}
	return nil
}

func unmarshalSettings(data []byte) (format.Settings, error) {
	var s format.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return format.Settings{}, errors.Wrap(err, "yaml.Unmarshal")
	}
	return s, nil
}
