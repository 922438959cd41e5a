package tmux

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/randalmurphal/promptpad/host"
)

const (
	// chunkSize bounds a single send-keys payload.
	chunkSize = 4096

	chunkDelay = 50 * time.Millisecond

	// enterDelay separates the typed text from Enter so the application has
	// read every literal key before the submit key arrives.
	enterDelay = 100 * time.Millisecond
)

// List implements host.Terminals. Scratch editor panes are excluded.
func (c *Client) List(ctx context.Context) ([]host.Terminal, error) {
	panes, err := c.Panes(ctx)
	if err != nil {
		return nil, err
	}
	c.forget(panes)

	terms := make([]host.Terminal, 0, len(panes))
	for _, p := range panes {
		if c.isScratch(p) {
			continue
		}
		terms = append(terms, c.terminal(p))
	}
	return terms, nil
}

// Show implements host.Terminals by selecting the pane's window and the pane.
func (c *Client) Show(ctx context.Context, id string) error {
	if _, err := c.run(ctx, "select-window", "-t", id); err != nil {
		return fmt.Errorf("select window: %w", err)
	}
	if _, err := c.run(ctx, "select-pane", "-t", id); err != nil {
		return fmt.Errorf("select pane: %w", err)
	}
	return nil
}

// SendText implements host.Terminals. Text is typed literally in chunks;
// submit presses Enter afterwards as a separate key.
func (c *Client) SendText(ctx context.Context, id, text string, submit bool) error {
	chunks := splitIntoChunks(text, chunkSize)
	for i, chunk := range chunks {
		if _, err := c.run(ctx, "send-keys", "-l", "-t", id, "--", chunk); err != nil {
			return fmt.Errorf("send chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if i < len(chunks)-1 {
			if err := c.sleep(ctx, chunkDelay); err != nil {
				return err
			}
		}
	}

	if !submit {
		return nil
	}
	if len(chunks) > 0 {
		if err := c.sleep(ctx, enterDelay); err != nil {
			return err
		}
	}
	if _, err := c.run(ctx, "send-keys", "-t", id, "Enter"); err != nil {
		return fmt.Errorf("send enter: %w", err)
	}
	return nil
}

// splitIntoChunks splits content into pieces of at most maxSize bytes,
// cutting after the last newline when there is one.
func splitIntoChunks(content string, maxSize int) []string {
	if content == "" {
		return nil
	}

	var chunks []string
	remaining := content
	for len(remaining) > maxSize {
		cut := strings.LastIndex(remaining[:maxSize], "\n") + 1
		if cut <= 1 {
			// No newline: hard split, but never inside a UTF-8 sequence.
			cut = maxSize
			for cut > 1 && !utf8.RuneStart(remaining[cut]) {
				cut--
			}
		}
		chunks = append(chunks, remaining[:cut])
		remaining = remaining[cut:]
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}
