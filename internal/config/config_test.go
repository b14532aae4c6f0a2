package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/lists.json")
	if cfg.Seed.Path != "/tmp/lists.json" {
		t.Fatalf("unexpected seed path %q", cfg.Seed.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if cfg.Lists.PlaceholderName != "Untitled" {
		t.Fatalf("unexpected placeholder name %q", cfg.Lists.PlaceholderName)
	}
	if cfg.Lists.NewItemDescription != "Unknown" || cfg.Lists.NewItemAssignedTo != "Unknown" {
		t.Fatalf("unexpected new item defaults %#v", cfg.Lists)
	}
	if !cfg.Journal.Enabled || cfg.Journal.ViewLimit != 20 {
		t.Fatalf("unexpected journal defaults %#v", cfg.Journal)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/lists.json")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Seed.Path != defaults.Seed.Path {
		t.Fatalf("expected default seed path, got %q", cfg.Seed.Path)
	}
}

func TestLoadEmptyPathAndFileUseDefaults(t *testing.T) {
	defaults := Default("/tmp/lists.json")
	cfg, err := Load("  ", defaults)
	if err != nil {
		t.Fatalf("Load(blank) error = %v", err)
	}
	if cfg.Lists.PlaceholderName != "Untitled" {
		t.Fatalf("unexpected placeholder %q", cfg.Lists.PlaceholderName)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err = Load(path, defaults)
	if err != nil {
		t.Fatalf("Load(empty) error = %v", err)
	}
	if cfg.Journal.ViewLimit != defaults.Journal.ViewLimit {
		t.Fatalf("unexpected view limit %d", cfg.Journal.ViewLimit)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[logging]
level = "debug"

[logging.dev_file]
enabled = false

[lists]
placeholder_name = "New list"
placeholder_owner = "me"

[seed]
path = "/custom/lists.json"

[journal]
enabled = false
view_limit = 5

[ui]
accent_color = "#ff8800"
markdown_style = "light"
show_completed_count = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/default.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.DevFile.Enabled {
		t.Fatalf("unexpected logging %#v", cfg.Logging)
	}
	if cfg.Logging.DevFile.Dir != ".todolist/log" {
		t.Fatalf("expected untouched dev file dir, got %q", cfg.Logging.DevFile.Dir)
	}
	if cfg.Lists.PlaceholderName != "New list" || cfg.Lists.PlaceholderOwner != "me" {
		t.Fatalf("unexpected lists %#v", cfg.Lists)
	}
	if cfg.Lists.NewItemDescription != "Unknown" {
		t.Fatalf("expected default item description, got %q", cfg.Lists.NewItemDescription)
	}
	if cfg.Seed.Path != "/custom/lists.json" {
		t.Fatalf("unexpected seed path %q", cfg.Seed.Path)
	}
	if cfg.Journal.Enabled || cfg.Journal.ViewLimit != 5 {
		t.Fatalf("unexpected journal %#v", cfg.Journal)
	}
	if cfg.UI.AccentColor != "#ff8800" || cfg.UI.MarkdownStyle != "light" || cfg.UI.ShowCompletedCount {
		t.Fatalf("unexpected ui %#v", cfg.UI)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"logging.level": `
[logging]
level = "loud"
`,
		"placeholder_name": `
[lists]
placeholder_name = "   "
`,
		"view_limit": `
[journal]
view_limit = -1
`,
		"markdown_style": `
[ui]
markdown_style = "neon"
`,
		"dev_file.dir": `
[logging.dev_file]
enabled = true
dir = ""
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			_, err := Load(path, Default("/tmp/default.json"))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), name) {
				t.Fatalf("expected error to mention %q, got %v", name, err)
			}
		})
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[journal\nview_limit = 3"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	_, err := Load(path, Default("/tmp/default.json"))
	if err == nil || !strings.Contains(err.Error(), "decode toml") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
