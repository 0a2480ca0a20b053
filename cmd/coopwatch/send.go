package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bft-labs/coopwatch/internal/cliconfig"
	"github.com/bft-labs/coopwatch/pkg/command"
	"github.com/bft-labs/coopwatch/pkg/coopwatch"
	"github.com/bft-labs/coopwatch/pkg/log"
)

// newSendCommand sends one door command and waits for the controller to
// answer, for use from scripts and cron.
func newSendCommand(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "send <control>",
		Short: "Send a door command (open, close, stop, ...)",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			if err := loadConfig(cmd, cfg, *cfgPath); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			var names []string
			for _, c := range cfg.ControlList() {
				names = append(names, c.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendControl(cmd, cfg, *cfgPath, args[0])
		},
	}
}

// newShortcutCommands returns one subcommand per default control, so
// "coopwatch close" works from cron without spelling out send.
func newShortcutCommands(cfg *cliconfig.Config, cfgPath *string) []*cobra.Command {
	var cmds []*cobra.Command
	for _, c := range command.DefaultControls() {
		name := c.Name
		cmds = append(cmds, &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Send the %s command", name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return sendControl(cmd, cfg, *cfgPath, name)
			},
		})
	}
	return cmds
}

// sendControl reports the controller's HTTP status on stdout.
func sendControl(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath, name string) error {
	if err := loadConfig(cmd, cfg, cfgPath); err != nil {
		return err
	}
	logger := log.NewConsoleLogger(os.Stderr, log.ParseLevel(cfg.LogLevel))

	w, err := coopwatch.New(watcherConfig(*cfg), coopwatch.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	code, err := w.DispatchSync(cmd.Context(), name)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", name, code)
	return nil
}

// newControlsCommand lists the configured door commands.
func newControlsCommand(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "controls",
		Short: "List the configured door commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfg, *cfgPath); err != nil {
				return err
			}
			return printControls(cmd, cfg.HTTPOrigin(), cfg.ControlList())
		},
	}
}

func printControls(cmd *cobra.Command, origin string, controls []command.Control) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, c := range controls {
		target, err := command.ResolveTarget(origin, c.Target)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\tPOST %s\n", c.Name, target)
	}
	return tw.Flush()
}
