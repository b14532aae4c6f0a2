package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Lists   ListsConfig   `toml:"lists"`
	Seed    SeedConfig    `toml:"seed"`
	Journal JournalConfig `toml:"journal"`
	UI      UIConfig      `toml:"ui"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the logfmt file sink written in dev mode.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// ListsConfig holds the placeholders used for new lists and new items.
type ListsConfig struct {
	PlaceholderName    string `toml:"placeholder_name"`
	PlaceholderOwner   string `toml:"placeholder_owner"`
	NewItemDescription string `toml:"new_item_description"`
	NewItemAssignedTo  string `toml:"new_item_assigned_to"`
}

type SeedConfig struct {
	Path string `toml:"path"`
}

type JournalConfig struct {
	Enabled   bool `toml:"enabled"`
	ViewLimit int  `toml:"view_limit"`
}

type UIConfig struct {
	AccentColor        string `toml:"accent_color"`
	MarkdownStyle      string `toml:"markdown_style"`
	ShowCompletedCount bool   `toml:"show_completed_count"`
}

var markdownStyles = []string{"dark", "light", "notty", "ascii", "pink", "dracula", "tokyo-night"}

func Default(seedPath string) Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".todolist/log",
			},
		},
		Lists: ListsConfig{
			PlaceholderName:    "Untitled",
			PlaceholderOwner:   "",
			NewItemDescription: "Unknown",
			NewItemAssignedTo:  "Unknown",
		},
		Seed: SeedConfig{
			Path: seedPath,
		},
		Journal: JournalConfig{
			Enabled:   true,
			ViewLimit: 20,
		},
		UI: UIConfig{
			AccentColor:        "62",
			MarkdownStyle:      "dark",
			ShowCompletedCount: true,
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when the dev file sink is enabled")
	}

	if strings.TrimSpace(c.Lists.PlaceholderName) == "" {
		return errors.New("lists.placeholder_name is required")
	}
	if strings.TrimSpace(c.Lists.NewItemDescription) == "" {
		return errors.New("lists.new_item_description is required")
	}

	if c.Journal.ViewLimit < 0 {
		return fmt.Errorf("journal.view_limit must be >= 0, got %d", c.Journal.ViewLimit)
	}

	style := strings.TrimSpace(strings.ToLower(c.UI.MarkdownStyle))
	if style != "" && !slices.Contains(markdownStyles, style) {
		return fmt.Errorf("invalid ui.markdown_style: %q", c.UI.MarkdownStyle)
	}

	return nil
}
