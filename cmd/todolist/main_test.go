package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/todolist/internal/config"
	"github.com/evanschultz/todolist/internal/seed"
	"github.com/evanschultz/todolist/internal/tui"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("TODOLIST_DEV_MODE", "false")
	_ = os.Unsetenv("TODOLIST_CONFIG")
	_ = os.Unsetenv("TODOLIST_SEED")
	os.Exit(m.Run())
}

// fakeProgram stands in for the bubbletea program loop.
type fakeProgram struct {
	runErr error
}

// Run returns the configured error without starting a terminal session.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

const testSeed = `{
  "lists": [
    {
      "name": "Groceries",
      "owner": "Ann",
      "items": [
        { "description": "Milk", "due_date": "2024-01-01" },
        { "description": "Eggs", "assigned_to": "Bo", "due_date": "2024-01-02", "completed": true }
      ]
    },
    { "name": "Chores" }
  ]
}`

// writeTestFile writes content to name under dir and returns the path.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// stubProgram replaces programFactory for the duration of a test.
func stubProgram(t *testing.T, runErr error) *tea.Model {
	t.Helper()
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	var captured tea.Model
	programFactory = func(m tea.Model) program {
		captured = m
		return fakeProgram{runErr: runErr}
	}
	return &captured
}

func TestRunVersion(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), []string{"--version"}, &out, io.Discard); err != nil {
		t.Fatalf("run(version) error = %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRunStartsProgram(t *testing.T) {
	captured := stubProgram(t, nil)

	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	seedPath := writeTestFile(t, tmp, "lists.json", testSeed)
	if err := run(context.Background(), []string{"--config", cfgPath, "--seed", seedPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, ok := (*captured).(tui.Model); !ok {
		t.Fatalf("expected tui.Model to be handed to the program, got %T", *captured)
	}
}

func TestRunPropagatesProgramError(t *testing.T) {
	stubProgram(t, io.ErrUnexpectedEOF)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "run tui program") {
		t.Fatalf("expected wrapped program error, got %v", err)
	}
}

func TestRunRejectsMissingExplicitSeed(t *testing.T) {
	stubProgram(t, nil)

	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	err := run(context.Background(), []string{"--config", cfgPath, "--seed", filepath.Join(tmp, "missing.json")}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "load seed") {
		t.Fatalf("expected missing seed error, got %v", err)
	}
}

func TestRunRejectsDuplicateSeedNames(t *testing.T) {
	stubProgram(t, nil)

	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	seedPath := writeTestFile(t, tmp, "lists.json", `{"lists":[{"name":"Chores"},{"name":"chores"}]}`)
	err := run(context.Background(), []string{"--config", cfgPath, "--seed", seedPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "duplicate list name") {
		t.Fatalf("expected duplicate seed rejection, got %v", err)
	}
}

func TestRunShowRejectsDuplicateSeedNames(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	seedPath := writeTestFile(t, tmp, "lists.json", `{"lists":[{"name":"Groceries"},{"name":"groceries"}]}`)

	for _, args := range [][]string{
		{"show", "--raw"},
		{"show", "--list", "GROCERIES"},
	} {
		var out strings.Builder
		err := run(context.Background(), append([]string{"--config", cfgPath, "--seed", seedPath}, args...), &out, io.Discard)
		if err == nil || !strings.Contains(err.Error(), "lists[1].name") {
			t.Fatalf("run(%v) expected duplicate name error, got %v", args, err)
		}
		if out.Len() != 0 {
			t.Fatalf("run(%v) expected no output, got %q", args, out.String())
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"bogus"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunConfigAndSeedEnvOverrides(t *testing.T) {
	stubProgram(t, nil)

	tmp := t.TempDir()
	cfgPath := writeTestFile(t, tmp, "config.toml", "[ui]\nmarkdown_style = \"notty\"\n")
	seedPath := writeTestFile(t, tmp, "lists.json", testSeed)
	t.Setenv("TODOLIST_CONFIG", cfgPath)
	t.Setenv("TODOLIST_SEED", seedPath)

	var out strings.Builder
	if err := run(context.Background(), []string{"show", "--raw", "--list", "chores"}, &out, io.Discard); err != nil {
		t.Fatalf("run(show) error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "# Chores\n") {
		t.Fatalf("expected env seed to be read, got %q", out.String())
	}
}

func TestRunPathsCommand(t *testing.T) {
	var out strings.Builder
	if err := run(context.Background(), []string{"--app", "todox", "--dev", "paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{"app: todox", "dev_mode: true", "config: ", "data_dir: ", "seed: "} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in paths output, got %q", want, output)
		}
	}
	if !strings.Contains(output, "todox-dev") {
		t.Fatalf("expected dev app dir in paths output, got %q", output)
	}
}

func TestRunShowMarkdown(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	seedPath := writeTestFile(t, tmp, "lists.json", testSeed)

	var out strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "--seed", seedPath, "show", "--raw"}, &out, io.Discard); err != nil {
		t.Fatalf("run(show) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{
		"# Groceries",
		"Owner: **Ann** · 1/2 complete",
		"- [ ] Milk (due 2024-01-01)",
		"- [x] Eggs (@Bo, due 2024-01-02)",
		"# Chores",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in show output, got %q", want, output)
		}
	}
}

func TestRunShowStyledMarkdown(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := writeTestFile(t, tmp, "config.toml", "[ui]\nmarkdown_style = \"ascii\"\n")
	seedPath := writeTestFile(t, tmp, "lists.json", testSeed)

	var out strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "--seed", seedPath, "show", "--list", "Groceries"}, &out, io.Discard); err != nil {
		t.Fatalf("run(show) error = %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "Milk") || strings.Contains(output, "Chores") {
		t.Fatalf("expected only the Groceries list, got %q", output)
	}
}

func TestRunShowJSON(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	seedPath := writeTestFile(t, tmp, "lists.json", testSeed)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"--config", cfgPath, "--seed", seedPath, "show", "--json"}, &out, io.Discard); err != nil {
		t.Fatalf("run(show --json) error = %v", err)
	}
	var file seed.File
	if err := json.Unmarshal(out.Bytes(), &file); err != nil {
		t.Fatalf("decode show json: %v", err)
	}
	if len(file.Lists) != 2 || file.Lists[0].Name != "Groceries" || len(file.Lists[0].Items) != 2 {
		t.Fatalf("unexpected show json %+v", file)
	}
	if got := file.Lists[0].Items[1]; got.DueDate != "2024-01-02" || !got.Completed {
		t.Fatalf("unexpected second item %+v", got)
	}
}

func TestRunShowUnknownList(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	seedPath := writeTestFile(t, tmp, "lists.json", testSeed)

	err := run(context.Background(), []string{"--config", cfgPath, "--seed", seedPath, "show", "--list", "Errands"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), `list "Errands" not found`) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestRunRejectsInvalidLoggingLevelFromConfig(t *testing.T) {
	cfgPath := writeTestFile(t, t.TempDir(), "todolist.toml", "[logging]\nlevel = \"verbose\"\n")

	err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected invalid logging level error")
	}
	if !strings.Contains(err.Error(), "invalid logging.level") {
		t.Fatalf("expected logging level validation error, got %v", err)
	}
}

func TestRunTUIModeWritesRuntimeLogsToFileOnly(t *testing.T) {
	stubProgram(t, nil)

	workspace := t.TempDir()
	t.Chdir(workspace)

	cfgPath := filepath.Join(workspace, "config.toml")
	seedPath := writeTestFile(t, workspace, "lists.json", testSeed)
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--dev", "--config", cfgPath, "--seed", seedPath}, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := strings.TrimSpace(stderr.String()); got != "" {
		t.Fatalf("expected no runtime stderr output in TUI mode, got %q", got)
	}

	logDir := filepath.Join(workspace, ".todolist", "log")
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	var logPath string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logPath = filepath.Join(logDir, entry.Name())
			break
		}
	}
	if logPath == "" {
		t.Fatalf("expected a .log file in %s", logDir)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	logOutput := string(content)
	for _, want := range []string{"starting tui program loop", "lists=2", "activity journal ready"} {
		if !strings.Contains(logOutput, want) {
			t.Fatalf("expected %q in runtime log file, got %q", want, logOutput)
		}
	}
}

func TestRunWithoutDevModeSkipsLogFile(t *testing.T) {
	stubProgram(t, nil)

	workspace := t.TempDir()
	t.Chdir(workspace)
	cfgPath := filepath.Join(workspace, "config.toml")
	if err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(workspace, ".todolist")); !os.IsNotExist(err) {
		t.Fatalf("expected no dev log dir outside dev mode, stat err = %v", err)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("TODOLIST_BOOL_TEST", "true")
	got, ok := parseBoolEnv("TODOLIST_BOOL_TEST")
	if !ok || !got {
		t.Fatalf("expected true bool env parse, got value=%t ok=%t", got, ok)
	}

	t.Setenv("TODOLIST_BOOL_TEST", "not-bool")
	if _, ok = parseBoolEnv("TODOLIST_BOOL_TEST"); ok {
		t.Fatal("expected invalid bool env to return ok=false")
	}
}

func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var console bytes.Buffer
	cfg := config.Default("").Logging

	logger, err := newRuntimeLogger(&console, "todolist", false, cfg, func() time.Time {
		return time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	if logger.FileSink() != nil {
		t.Fatal("expected no file sink outside dev mode")
	}

	logger.Info("before")
	logger.SetConsoleEnabled(false)
	logger.Info("during")
	logger.SetConsoleEnabled(true)
	logger.Info("after")

	out := console.String()
	if !strings.Contains(out, "before") {
		t.Fatalf("expected console log to include 'before', got %q", out)
	}
	if strings.Contains(out, "during") {
		t.Fatalf("expected muted console log to omit 'during', got %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Fatalf("expected console log to include 'after', got %q", out)
	}
}

func TestWorkspaceRootFromUsesNearestMarker(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "go.mod", "module example.com/test\n")
	nested := filepath.Join(root, "cmd", "todolist")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if got := workspaceRootFrom(nested); filepath.Clean(got) != filepath.Clean(root) {
		t.Fatalf("expected workspace root %q, got %q", root, got)
	}
}

func TestDevLogFilePathResolvesAgainstWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "go.mod", "module example.com/test\n")
	nested := filepath.Join(root, "cmd", "todolist")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	t.Chdir(nested)

	got, err := devLogFilePath(".todolist/log", "todolist", time.Date(2026, 2, 22, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("devLogFilePath() error = %v", err)
	}
	normalize := func(p string) string {
		return strings.TrimPrefix(filepath.Clean(p), "/private")
	}
	want := filepath.Join(root, ".todolist", "log", "todolist-20260222.log")
	if normalize(got) != normalize(want) {
		t.Fatalf("expected log path %q, got %q", want, got)
	}
}

func TestSanitizeLogFileStem(t *testing.T) {
	cases := map[string]string{
		"":             "todolist",
		"  ":           "todolist",
		"my app":       "my-app",
		"a/b:c":        "a-b-c",
		"--todolist--": "todolist",
	}
	for in, want := range cases {
		if got := sanitizeLogFileStem(in); got != want {
			t.Fatalf("sanitizeLogFileStem(%q) = %q, want %q", in, got, want)
		}
	}
}
