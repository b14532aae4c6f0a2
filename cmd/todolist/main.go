package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/todolist/internal/adapters/storage/sqlite"
	"github.com/evanschultz/todolist/internal/app"
	"github.com/evanschultz/todolist/internal/config"
	"github.com/evanschultz/todolist/internal/controller"
	"github.com/evanschultz/todolist/internal/domain"
	"github.com/evanschultz/todolist/internal/platform"
	"github.com/evanschultz/todolist/internal/render"
	"github.com/evanschultz/todolist/internal/seed"
	"github.com/evanschultz/todolist/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var version = "dev"

// program is the part of a bubbletea program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory is swapped out in tests.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// previewWidth is the wrap width for markdown written by the show command.
const previewWidth = 80

func main() {
	// fang reports the error on stderr.
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	configPath string
	seedPath   string
	appName    string
	devMode    bool
}

// runtimeEnv is the resolved configuration for one command invocation.
type runtimeEnv struct {
	paths        platform.Paths
	configPath   string
	cfg          config.Config
	seedPath     string
	seedExplicit bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{appName: platform.DefaultAppName}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TODOLIST_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TODOLIST_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	cmd := &cobra.Command{
		Use:   "todolist",
		Short: "Keyboard-driven to-do list manager",
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todolist

  # Start with lists from a seed file
  todolist --seed ./lists.json

  # Print one seeded list as markdown
  todolist show --list Groceries
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts, cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.seedPath, "seed", "", "path to a JSON seed file of starting lists")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev) and the dev log file")

	cmd.AddCommand(newPathsCmd(opts), newShowCmd(opts))
	return cmd
}

func newPathsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "seed: %s\n", paths.SeedPath)
			return nil
		},
	}
}

func newShowCmd(opts *cliOptions) *cobra.Command {
	var (
		listName string
		asJSON   bool
		raw      bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print seeded lists as markdown or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.Context(), opts, showOptions{
				listName: listName,
				asJSON:   asJSON,
				raw:      raw,
			}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&listName, "list", "", "only print the list with this name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the seed document as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	return cmd
}

// showOptions are the flags of the show command.
type showOptions struct {
	listName string
	asJSON   bool
	raw      bool
}

func runShow(ctx context.Context, opts *cliOptions, show showOptions, stdout, stderr io.Writer) error {
	env, err := resolveRuntime(opts)
	if err != nil {
		return err
	}
	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, env.cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("command flow start", "command", "show", "seed_path", env.seedPath)
	lists, err := loadSeedLists(env)
	if err != nil {
		logger.Error("command flow failed", "command", "show", "err", err)
		return err
	}
	if name := strings.TrimSpace(show.listName); name != "" {
		lists, err = filterListsByName(lists, name)
		if err != nil {
			return err
		}
	}

	if show.asJSON {
		encoded, err := json.MarshalIndent(seed.FromDomain(lists), "", "  ")
		if err != nil {
			return fmt.Errorf("encode lists json: %w", err)
		}
		encoded = append(encoded, '\n')
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write lists json: %w", err)
		}
		logger.Info("command flow complete", "command", "show", "lists", len(lists))
		return nil
	}

	renderer := render.NewTerminal(env.cfg.UI.MarkdownStyle)
	for i, list := range lists {
		if err := ctx.Err(); err != nil {
			return err
		}
		md := render.ListMarkdown(list)
		if !show.raw {
			md = renderer.Render(md, previewWidth)
		}
		if i > 0 {
			_, _ = fmt.Fprintln(stdout)
		}
		_, _ = fmt.Fprintln(stdout, strings.TrimRight(md, "\n"))
	}
	logger.Info("command flow complete", "command", "show", "lists", len(lists))
	return nil
}

func runTUI(ctx context.Context, opts *cliOptions, stderr io.Writer) error {
	env, err := resolveRuntime(opts)
	if err != nil {
		return err
	}
	cfg := env.cfg

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// Runtime logs go to the dev file only while the TUI owns the terminal.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil && logger.shouldLogToSink(logger.consoleSink) {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", "tui")
	logger.Debug("runtime paths resolved", "config_path", env.configPath, "data_dir", env.paths.DataDir, "seed_path", env.seedPath)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	var journal app.Journal
	if cfg.Journal.Enabled {
		repo, err := sqlite.OpenInMemory()
		if err != nil {
			logger.Error("sqlite open failed", "err", err)
			return fmt.Errorf("open activity journal: %w", err)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				logger.Warn("sqlite close failed", "err", closeErr)
			}
		}()
		journal = repo
		logger.Info("activity journal ready", "driver", "sqlite", "mode", "memory")
	}

	session := app.NewSession(journal, uuid.NewString, nil, app.SessionConfig{
		PlaceholderName:  cfg.Lists.PlaceholderName,
		PlaceholderOwner: cfg.Lists.PlaceholderOwner,
	})
	lists, err := loadSeedLists(env)
	if err != nil {
		logger.Error("seed load failed", "seed_path", env.seedPath, "err", err)
		return err
	}
	if err := session.Seed(ctx, lists); err != nil {
		logger.Error("seed rejected", "seed_path", env.seedPath, "err", err)
		return fmt.Errorf("seed lists: %w", err)
	}
	logger.Info("session ready", "lists", len(lists))

	m := tui.NewModel(
		session,
		tui.WithControllerOptions(
			controller.WithLogger(logger.FileSink()),
			controller.WithNewItemDefaults(domain.ItemInput{
				Description: cfg.Lists.NewItemDescription,
				AssignedTo:  cfg.Lists.NewItemAssignedTo,
			}),
			controller.WithActivityLimit(cfg.Journal.ViewLimit),
		),
		tui.WithRenderer(render.NewTerminal(cfg.UI.MarkdownStyle)),
		tui.WithAccentColor(cfg.UI.AccentColor),
		tui.WithCompletedCount(cfg.UI.ShowCompletedCount),
	)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

func resolvePaths(opts *cliOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// resolveRuntime applies flag, environment and config-file precedence.
func resolveRuntime(opts *cliOptions) (runtimeEnv, error) {
	paths, err := resolvePaths(opts)
	if err != nil {
		return runtimeEnv{}, err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("TODOLIST_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	cfg, err := config.Load(configPath, config.Default(paths.SeedPath))
	if err != nil {
		return runtimeEnv{}, fmt.Errorf("load config %q: %w", configPath, err)
	}

	env := runtimeEnv{paths: paths, configPath: configPath, cfg: cfg}
	seedPath := strings.TrimSpace(opts.seedPath)
	if seedPath == "" {
		seedPath = strings.TrimSpace(os.Getenv("TODOLIST_SEED"))
	}
	switch {
	case seedPath != "":
		env.seedPath = seedPath
		env.seedExplicit = true
	default:
		env.seedPath = strings.TrimSpace(cfg.Seed.Path)
		env.seedExplicit = env.seedPath != "" && env.seedPath != paths.SeedPath
	}
	return env, nil
}

// loadSeedLists reads the seed file. A missing file at the default location means no lists.
func loadSeedLists(env runtimeEnv) ([]*domain.TodoList, error) {
	if env.seedPath == "" {
		return nil, nil
	}
	if !env.seedExplicit {
		if _, err := os.Stat(env.seedPath); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}
	lists, err := seed.Load(env.seedPath, uuid.NewString)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	return lists, nil
}

func filterListsByName(lists []*domain.TodoList, name string) ([]*domain.TodoList, error) {
	for _, list := range lists {
		if strings.EqualFold(strings.TrimSpace(list.Name), name) {
			return []*domain.TodoList{list}, nil
		}
	}
	return nil, domain.NewNotFoundError("list", name)
}

// parseBoolEnv reports the boolean value of an environment variable and whether it was set and valid.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
