package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bft-labs/coopwatch/internal/cliconfig"
	"github.com/bft-labs/coopwatch/internal/tui"
	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/coopwatch"
	"github.com/bft-labs/coopwatch/pkg/log"
	"github.com/bft-labs/coopwatch/pkg/view"
	"github.com/bft-labs/coopwatch/plugins/configwatcher"
)

const helpDescription = `
Watch and drive an automatic coop door from the terminal.

coopwatch follows the controller's status channel and shows the door state
and its limit switches as they change. Door commands (open, close, stop and
any configured extras) are sent with a single key press or from scripts.

Configure via file ($HOME/.coopwatch/config.toml), COOPWATCH_* env, or flags.
`

var exampleUsage = strings.TrimSpace(`
  coopwatch --origin http://coop.local:5000
  coopwatch --plain --reconnect | tee door.log
  coopwatch close
  coopwatch send reload
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:          "coopwatch",
		Short:        "Watch and drive an automatic coop door",
		Long:         strings.TrimSpace(helpDescription),
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			plain := cfg.Plain || !term.IsTerminal(int(os.Stdout.Fd()))

			logger, closeLog, err := newLogger(cfg, plain)
			if err != nil {
				return err
			}
			defer closeLog()

			if plain {
				return runPlain(cmd.Context(), cfg, resolvedConfigPath(cfgPath), logger)
			}
			return runTUI(cmd.Context(), cfg, resolvedConfigPath(cfgPath), logger)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.coopwatch/config.toml)")
	flags.StringVar(&cfg.Origin, "origin", cfg.Origin, "controller web address (http, https, ws or wss)")
	flags.StringVar(&cfg.StatusPath, "status-path", cfg.StatusPath, "status channel path on the origin")
	flags.BoolVar(&cfg.Reconnect, "reconnect", cfg.Reconnect, "dial again after the status channel closes")
	flags.DurationVar(&cfg.ReconnectInitial, "reconnect-initial", cfg.ReconnectInitial, "first reconnect delay")
	flags.DurationVar(&cfg.ReconnectMax, "reconnect-max", cfg.ReconnectMax, "maximum reconnect delay")
	flags.DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", cfg.HandshakeTimeout, "status channel handshake timeout (0 = none)")
	flags.DurationVar(&cfg.CommandTimeout, "command-timeout", cfg.CommandTimeout, "door command timeout (0 = none)")
	flags.BoolVar(&cfg.Plain, "plain", cfg.Plain, "print one line per status change instead of the interactive screen")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file (default: $HOME/.coopwatch/coopwatch.log in interactive mode)")

	root.AddCommand(newSendCommand(&cfg, &cfgPath), newControlsCommand(&cfg, &cfgPath))
	root.AddCommand(newShortcutCommands(&cfg, &cfgPath)...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "coopwatch:", err)
		stop()
		os.Exit(1)
	}
}

func resolvedConfigPath(cfgPath string) string {
	if cfgPath != "" {
		return cfgPath
	}
	return cliconfig.DefaultConfigPath()
}

// loadConfig applies the config file, then COOPWATCH_* env, then validates.
// Flags set on the command line win over both.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := resolvedConfigPath(cfgPath)
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	} else if cfgPath != "" {
		return fmt.Errorf("config file %s not found", cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

// newLogger logs to stderr in plain mode and to a file otherwise, so the
// interactive screen is never overwritten.
func newLogger(cfg cliconfig.Config, plain bool) (log.Logger, func(), error) {
	level := log.ParseLevel(cfg.LogLevel)
	if plain && cfg.LogFile == "" {
		return log.NewConsoleLogger(os.Stderr, level), func() {}, nil
	}
	logger, closeFn, err := log.NewFileLogger(cfg.LogFile, level)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logger, closeFn, nil
}

func watcherConfig(cfg cliconfig.Config) coopwatch.Config {
	return coopwatch.Config{
		Origin:           cfg.Origin,
		StatusPath:       cfg.StatusPath,
		Controls:         cfg.ControlList(),
		Reconnect:        cfg.Reconnect,
		ReconnectInitial: cfg.ReconnectInitial,
		ReconnectMax:     cfg.ReconnectMax,
		HandshakeTimeout: cfg.HandshakeTimeout,
		CommandTimeout:   cfg.CommandTimeout,
	}
}

func loadControls(path string) ([]command.Control, error) {
	controls, err := cliconfig.LoadControls(path)
	if err != nil {
		return nil, err
	}
	return command.ControlsFromMap(controls), nil
}

// watchConfig is nil when there is no config file to follow.
func watchConfig(path string, onReload func([]command.Control)) []coopwatch.Option {
	if path == "" || !cliconfig.FileExists(path) {
		return nil
	}
	return []coopwatch.Option{configwatcher.WithConfigWatcher(configwatcher.Config{
		Path:     path,
		Load:     loadControls,
		OnReload: onReload,
	})}
}

// runPlain prints status lines until interrupted. Without reconnect it
// returns once the status channel closes.
func runPlain(ctx context.Context, cfg cliconfig.Config, cfgFile string, logger log.Logger) error {
	events := &plainEvents{logger: logger, closed: make(chan struct{})}
	opts := []coopwatch.Option{
		coopwatch.WithLogger(logger),
		coopwatch.WithSurface(view.NewLineSurface(os.Stdout)),
		coopwatch.WithEventHandler(events),
	}
	opts = append(opts, watchConfig(cfgFile, nil)...)

	w, err := coopwatch.New(watcherConfig(cfg), opts...)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	var closed <-chan struct{}
	if !cfg.Reconnect {
		closed = events.closed
	}
	select {
	case <-ctx.Done():
		logger.Info("received signal, stopping")
	case <-closed:
	}

	if err := w.Stop(); err != nil {
		return fmt.Errorf("stop watcher: %w", err)
	}
	return nil
}

// runTUI shows the interactive screen until the user quits.
func runTUI(ctx context.Context, cfg cliconfig.Config, cfgFile string, logger log.Logger) error {
	surface := tui.NewSurface()
	events := &programEvents{}

	opts := []coopwatch.Option{
		coopwatch.WithLogger(logger),
		coopwatch.WithSurface(surface),
		coopwatch.WithEventHandler(events),
	}
	opts = append(opts, watchConfig(cfgFile, func(controls []command.Control) {
		events.send(tui.ControlsMsg{Controls: controls})
	})...)

	w, err := coopwatch.New(watcherConfig(cfg), opts...)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	model := tui.New(tui.Options{
		Origin:   cfg.Origin,
		Controls: w.Controls(),
		Dispatch: w.Dispatch,
	})
	program := tui.Program(model, surface, tea.WithContext(ctx))
	events.program = program

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	_, runErr := program.Run()

	if err := w.Stop(); err != nil {
		logger.Error("stop watcher", log.Err(err))
	}
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}
