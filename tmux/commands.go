package tmux

import (
	"context"
	"fmt"
	"strings"
)

// pasteBuffer is the tmux paste buffer used by the paste command.
const pasteBuffer = "promptpad"

// Execute implements host.Commands.
//
//	create        new window named after the channel, running its command
//	paste <pane>  paste the clipboard into pane as a bracketed paste
//	focus <pane>  select pane
//
// Names registered with WithCommand take precedence.
func (c *Client) Execute(ctx context.Context, name string, args ...string) error {
	if argv, ok := c.custom[name]; ok {
		_, err := c.run(ctx, expandTarget(argv, args)...)
		return err
	}

	switch name {
	case CommandCreate:
		argv := append([]string{"new-window", "-n", c.channelName, "--"}, strings.Fields(c.channelCommand)...)
		if _, err := c.run(ctx, argv...); err != nil {
			return fmt.Errorf("create channel: %w", err)
		}
		return nil

	case CommandPaste:
		if len(args) == 0 {
			return fmt.Errorf("paste: target pane required")
		}
		if c.clipboard == nil {
			return fmt.Errorf("paste: no clipboard configured")
		}
		text, err := c.clipboard.ReadText()
		if err != nil {
			return fmt.Errorf("paste: %w", err)
		}
		if _, err := c.run(ctx, "set-buffer", "-b", pasteBuffer, "--", text); err != nil {
			return fmt.Errorf("paste: %w", err)
		}
		if _, err := c.run(ctx, "paste-buffer", "-p", "-d", "-b", pasteBuffer, "-t", args[0]); err != nil {
			return fmt.Errorf("paste: %w", err)
		}
		return nil

	case CommandFocus:
		if len(args) == 0 {
			return fmt.Errorf("focus: target pane required")
		}
		return c.Show(ctx, args[0])
	}

	return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func expandTarget(argv, args []string) []string {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = strings.ReplaceAll(a, "{target}", target)
	}
	return out
}
