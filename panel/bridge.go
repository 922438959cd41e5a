package panel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/message"
)

// Bridge runs the panel protocol over newline-delimited JSON. Each line read
// from the input is one message; userQuery is the only command accepted.
// Progress goes out as loadingState and error lines.
type Bridge struct {
	in     io.Reader
	out    io.Writer
	sender Sender
	logger *zap.Logger

	mu sync.Mutex
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithBridgeLogger sets the logger.
func WithBridgeLogger(l *zap.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBridge creates a bridge reading from in and writing to out.
func NewBridge(in io.Reader, out io.Writer, sender Sender, opts ...BridgeOption) *Bridge {
	b := &Bridge{in: in, out: out, sender: sender, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run processes messages until the input ends or ctx is cancelled. Queries
// are handled one at a time in arrival order.
func (b *Bridge) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(b.in)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		msg, err := message.Decode([]byte(line))
		if err != nil {
			b.logger.Warn("ignoring panel message", zap.Error(err))
			if errors.Is(err, message.ErrUnknownCommand) {
				continue
			}
			if perr := b.Post(message.Error{Message: fmt.Sprintf("An error occurred: %v", err)}); perr != nil {
				return perr
			}
			continue
		}

		q, ok := msg.(message.UserQuery)
		if !ok {
			b.logger.Debug("ignoring outbound-only command", zap.String("command", msg.Command()))
			continue
		}
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		if err := b.sender.SendWithReporter(ctx, q.Text, b); err != nil {
			b.logger.Info("panel query failed", zap.Error(err))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read panel input: %w", err)
	}
	return nil
}

// Post writes one message as a JSON line.
func (b *Bridge) Post(m message.Message) error {
	data, err := message.Encode(m)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.out.Write(data); err != nil {
		return fmt.Errorf("write panel output: %w", err)
	}
	return nil
}

// Loading implements dispatch.Reporter.
func (b *Bridge) Loading(loading bool) {
	b.post(message.LoadingState{Loading: loading})
}

// Error implements dispatch.Reporter.
func (b *Bridge) Error(msg string) {
	b.post(message.Error{Message: msg})
}

// ReturnFocus implements dispatch.Reporter. The remote UI owns focus, so
// nothing is written.
func (b *Bridge) ReturnFocus() {
	b.logger.Debug("send complete")
}

func (b *Bridge) post(m message.Message) {
	if err := b.Post(m); err != nil {
		b.logger.Warn("panel output failed", zap.Error(err))
	}
}
