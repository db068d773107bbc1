// Package bridge connects the session to whichever display surface is
// currently open.
package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
)

var (
	ErrAlreadySubscribed = errors.New("bridge: inbound handler already subscribed")
	ErrNoFactory         = errors.New("bridge: no surface factory configured")
)

// Surface is a display that renders outbound messages.
type Surface interface {
	Send(Outbound) error
	Reveal()
	Close() error
}

// Factory creates a new surface on demand.
type Factory func() (Surface, error)

// Handler receives inbound messages.
type Handler func(Inbound)

// Rewriter turns an absolute image path into a reference the surface can load.
type Rewriter func(path string) string

// Options configures a Bridge.
type Options struct {
	Factory  Factory
	Rewriter Rewriter
	// OnShow runs after a surface is created or attached, outside the lock.
	OnShow func()
}

// Bridge holds at most one surface and one inbound handler.
type Bridge struct {
	opts Options

	mu      sync.Mutex
	surface Surface
	handler Handler
}

// New constructs a Bridge.
func New(opts Options) *Bridge {
	return &Bridge{opts: opts}
}

// Show reveals the current surface or creates one with the factory.
func (b *Bridge) Show() (bool, error) {
	b.mu.Lock()
	if b.surface != nil {
		s := b.surface
		b.mu.Unlock()
		s.Reveal()
		events.Bridge.Show(false)
		return false, nil
	}
	if b.opts.Factory == nil {
		b.mu.Unlock()
		return false, ErrNoFactory
	}
	s, err := b.opts.Factory()
	if err != nil {
		b.mu.Unlock()
		return false, fmt.Errorf("create surface: %w", err)
	}
	b.surface = s
	b.mu.Unlock()

	events.Bridge.Show(true)
	b.shown()
	return true, nil
}

// Attach installs a surface created elsewhere, closing any previous one.
func (b *Bridge) Attach(s Surface) {
	if s == nil {
		return
	}
	b.mu.Lock()
	prev := b.surface
	b.surface = s
	b.mu.Unlock()

	replaced := prev != nil && prev != s
	if replaced {
		if err := prev.Close(); err != nil {
			logging.Error(fmt.Errorf("close replaced surface: %w", err))
		}
	}
	events.Bridge.Attach(replaced)
	b.shown()
}

// Detach forgets s if it is still the current surface.
func (b *Bridge) Detach(s Surface) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface == nil || b.surface != s {
		return
	}
	b.surface = nil
	events.Bridge.Detach()
}

// Visible reports whether a surface is attached.
func (b *Bridge) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface != nil
}

// Push sends msg to the current surface. Messages are dropped when nothing is
// attached, and a failed send detaches the surface.
func (b *Bridge) Push(msg Outbound) {
	if msg == nil {
		return
	}
	b.mu.Lock()
	s := b.surface
	b.mu.Unlock()
	if s == nil {
		events.Bridge.Drop(msg.MessageType())
		return
	}
	msg = b.rewrite(msg)
	if err := s.Send(msg); err != nil {
		logging.Error(fmt.Errorf("send %s: %w", msg.MessageType(), err))
		b.Detach(s)
		return
	}
	events.Bridge.Push(msg.MessageType())
}

func (b *Bridge) rewrite(msg Outbound) Outbound {
	update, ok := msg.(UpdatePair)
	if !ok || update.Pair == nil {
		return msg
	}
	view := *update.Pair
	if b.opts.Rewriter != nil {
		view.ImagePath = b.opts.Rewriter(view.ImagePath)
	}
	update.Pair = &view
	return update
}

// Subscribe registers the inbound handler. Only one is allowed.
func (b *Bridge) Subscribe(h Handler) error {
	if h == nil {
		return errors.New("bridge: nil handler")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handler != nil {
		return ErrAlreadySubscribed
	}
	b.handler = h
	return nil
}

// Deliver hands an inbound message to the subscribed handler.
func (b *Bridge) Deliver(in Inbound) {
	b.mu.Lock()
	h := b.handler
	b.mu.Unlock()
	events.Bridge.Inbound(in.Type, h != nil)
	if h != nil {
		h(in)
	}
}

// Close closes the current surface, if any.
func (b *Bridge) Close() error {
	b.mu.Lock()
	s := b.surface
	b.surface = nil
	b.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}

func (b *Bridge) shown() {
	if b.opts.OnShow != nil {
		b.opts.OnShow()
	}
}
