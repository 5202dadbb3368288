package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnhandled is returned when no handler is registered for a command.
var ErrUnhandled = errors.New("command has no handler")

// HandlerFunc executes one command.
type HandlerFunc func(ctx context.Context, cmd Command) error

// Bus maps each command to a single handler.
type Bus struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	handlers map[Command]HandlerFunc
}

// NewBus creates an empty bus.
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		logger:   logger,
		handlers: make(map[Command]HandlerFunc),
	}
}

// Handle registers fn for cmd, replacing any previous handler.
func (b *Bus) Handle(cmd Command, fn HandlerFunc) {
	if !cmd.Valid() {
		panic(fmt.Sprintf("command: cannot handle invalid %s", cmd))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[cmd] = fn
}

// Handled reports whether cmd has a handler.
func (b *Bus) Handled(cmd Command) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.handlers[cmd]
	return ok
}

// Dispatch runs the handler for cmd on the calling goroutine.
func (b *Bus) Dispatch(ctx context.Context, cmd Command) error {
	b.mu.RLock()
	fn, ok := b.handlers[cmd]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", cmd, ErrUnhandled)
	}

	b.logger.Debug().Stringer("command", cmd).Msg("dispatching command")
	if err := fn(ctx, cmd); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}

// Run dispatches commands from in one at a time until in is closed or ctx
// is done. Handler errors are logged and do not stop the loop.
func (b *Bus) Run(ctx context.Context, in <-chan Command) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-in:
			if !ok {
				return nil
			}
			if err := b.Dispatch(ctx, cmd); err != nil {
				b.logger.Warn().Err(err).Stringer("command", cmd).Msg("command failed")
			}
		}
	}
}
