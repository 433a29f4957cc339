package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "plank.db"
	appDirName            = "plank"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	Left        string `toml:"left"`
	Right       string `toml:"right"`
	Grab        string `toml:"grab"`
	Drop        string `toml:"drop"`
	Cancel      string `toml:"cancel"`
	Delete      string `toml:"delete"`
	QuickAdd    string `toml:"quick_add"`
	Undo        string `toml:"undo"`
	DismissUndo string `toml:"dismiss_undo"`
	Profile     string `toml:"profile"`
	DarkMode    string `toml:"dark_mode"`
}

type Config struct {
	DBPath string `toml:"db_path"`
	Keys   Keymap `toml:"keys"`
}

// ResolveConfigPath places the config next to the user's other app
// configs, falling back to the working directory when no config dir is
// available.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultDBName
	}
	return filepath.Join(dir, appDirName, DefaultDBName)
}

func defaultConfig() Config {
	return Config{
		DBPath: defaultDBPath(),
		Keys: Keymap{
			Quit:        "q",
			Up:          "k",
			Down:        "j",
			Left:        "h",
			Right:       "l",
			Grab:        " ",
			Drop:        "enter",
			Cancel:      "esc",
			Delete:      "d",
			QuickAdd:    "ctrl+k",
			Undo:        "ctrl+z",
			DismissUndo: "x",
			Profile:     "tab",
			DarkMode:    "t",
		},
	}
}
