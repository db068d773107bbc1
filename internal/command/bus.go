// Package command exposes the host commands that drive a session from outside
// a display surface: open, refresh, next and previous.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
)

// Command identifiers.
const (
	Open     = "open"
	Refresh  = "refresh"
	Next     = "next"
	Previous = "previous"
)

var (
	ErrInvalidStep    = errors.New("command: step must be 1, 10 or 100")
	ErrUnknownCommand = errors.New("command: unknown command")
)

// Request encapsulates a command invocation.
type Request struct {
	ID   string
	Step int
}

// Handler performs a command.
type Handler func(ctx context.Context, req Request) error

// Bus maps command identifiers to handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// New initialises an empty command bus.
func New() *Bus {
	return &Bus{handlers: make(map[string]Handler)}
}

// Register installs h for id, replacing any previous handler.
func (b *Bus) Register(id string, h Handler) {
	b.mu.Lock()
	b.handlers[id] = h
	b.mu.Unlock()
}

// IDs returns the registered identifiers in sorted order.
func (b *Bus) IDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Execute validates req and runs its handler while emitting trace logs.
func (b *Bus) Execute(ctx context.Context, req Request) error {
	events.Command.Queue(req.ID, req.Step)
	b.mu.RLock()
	h, ok := b.handlers[req.ID]
	b.mu.RUnlock()
	if !ok || h == nil {
		events.Command.Skip(req.ID)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, req.ID)
	}
	if req.ID == Next || req.ID == Previous {
		step, err := ValidateStep(req.Step)
		if err != nil {
			events.Command.Result(req.ID, err)
			return err
		}
		req.Step = step
	}
	err := h(ctx, req)
	events.Command.Result(req.ID, err)
	return err
}

// ValidateStep accepts the navigation steps offered to hosts. Zero means 1.
func ValidateStep(step int) (int, error) {
	switch step {
	case 0:
		return 1, nil
	case 1, 10, 100:
		return step, nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidStep, step)
}
