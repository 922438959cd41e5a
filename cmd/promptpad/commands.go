package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/promptpad/channel"
	"github.com/randalmurphal/promptpad/extension"
	"github.com/randalmurphal/promptpad/message"
	"github.com/randalmurphal/promptpad/panel"
	"github.com/randalmurphal/promptpad/tmux"
)

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func (a *app) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open a scratch prompt and send it when the editor closes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			rt, err := a.start(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.ext.Run(ctx, extension.CommandOpenScratch); err != nil {
				return err
			}
			return rt.waitIdle(ctx)
		},
	}
}

func (a *app) sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send [text...]",
		Short: "Send text to the Claude terminal",
		Long:  "Send the arguments, or standard input when there are none, to the Claude terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			rt, err := a.start(ctx)
			if err != nil {
				return err
			}
			defer rt.close()
			return rt.ext.Run(ctx, extension.CommandSend, text)
		},
	}
}

func (a *app) panelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Type a prompt in an interactive input panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			var rt *runtime
			show := func(ctx context.Context) error {
				return runPanel(ctx, rt.ext.Pipeline(), a.logger)
			}
			rt, err := a.start(ctx, extension.WithPanel(show))
			if err != nil {
				return err
			}
			defer rt.close()
			return rt.ext.Run(ctx, extension.CommandShowPanel)
		},
	}
}

// runPanel sizes the prompt box from the screen height and runs the panel
// until the user quits.
func runPanel(ctx context.Context, sender panel.Sender, logger *zap.Logger) error {
	sizes := panel.NewSizeDetector(
		panel.WithProbe(panel.TermProbe(os.Stdout)),
		panel.WithSizeLogger(logger))
	rows := 2 * sizes.CollapseCount(ctx)

	p := tea.NewProgram(panel.New(ctx, sender, rows), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the panel message protocol as JSON lines on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			rt, err := a.start(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			bridge := panel.NewBridge(cmd.InOrStdin(), cmd.OutOrStdout(), rt.ext.Pipeline(),
				panel.WithBridgeLogger(a.logger))
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func (a *app) channelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List terminals, marking the ones that count as a Claude channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !tmux.InSession() {
				return errNoTmux
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			matcher, err := channel.NewMatcher(cfg.Patterns...)
			if err != nil {
				return err
			}

			terms, err := newClient(cfg, a.logger).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range terms {
				mark := " "
				if matcher.Match(t.Name) {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-6s %s\n", mark, t.ID, t.Name)
			}
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "toml":
				return toml.NewEncoder(out).Encode(cfg)
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				_, err = out.Write(data)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			default:
				return fmt.Errorf("unknown format %q (want toml, yaml or json)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "Output format: toml, yaml or json")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of panel messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(message.Schema())
		},
	}
}

func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "promptpad %s\n", version)
		},
	}
}
