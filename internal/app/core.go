package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"github.com/atomicstack/caption-pair-manager/internal/backend"
	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/captions"
	"github.com/atomicstack/caption-pair-manager/internal/command"
	"github.com/atomicstack/caption-pair-manager/internal/data/dispatcher"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
	"github.com/atomicstack/caption-pair-manager/internal/pairs"
	"github.com/atomicstack/caption-pair-manager/internal/session"
	"github.com/atomicstack/caption-pair-manager/internal/tokens"
)

const shutdownTimeout = 5 * time.Second

var ErrStopped = errors.New("app: session queue is stopped")

// CoreOptions selects how the bridge reaches a display surface.
type CoreOptions struct {
	Factory  bridge.Factory
	Rewriter bridge.Rewriter
	// OpenHint is logged when open is requested and no surface can be
	// created, e.g. the browser URL in web mode.
	OpenHint string
}

// Core wires a session to its queue, bridge, commands and folder watcher.
// Every session call runs on the queue goroutine.
type Core struct {
	cfg  Config
	root string
	opts CoreOptions

	session  *session.Session
	bridge   *bridge.Bridge
	commands *command.Bus
	dispatch *dispatcher.Dispatcher
	queue    *backend.Queue
	lock     *folderLock

	watcher   *backend.Watcher
	debouncer *backend.Debouncer
	signals   chan os.Signal

	runCtx    context.Context
	runCancel context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once
	stopErr   error
}

// NewCore builds the runtime for cfg without starting anything.
func NewCore(cfg Config, opts CoreOptions) (*Core, error) {
	lang, err := collation(cfg.Collation)
	if err != nil {
		return nil, err
	}
	root := strings.TrimSpace(cfg.Root)
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve folder: %w", err)
		}
		root = abs
	}

	c := &Core{cfg: cfg, root: root, opts: opts, queue: backend.NewQueue(), commands: command.New()}
	c.bridge = bridge.New(bridge.Options{
		Factory:  opts.Factory,
		Rewriter: opts.Rewriter,
		OnShow:   c.onShow,
	})

	store := captions.New()
	c.session = session.New(session.Options{
		Scanner:   pairs.NewScanner(store, lang),
		Store:     store,
		Publisher: c.bridge,
		Tokens:    tokens.ByName(cfg.Tokenizer),
		Verbose:   cfg.Verbose,
	})
	c.dispatch = dispatcher.New(c.session)
	if err := c.bridge.Subscribe(c.deliver); err != nil {
		return nil, err
	}
	c.registerCommands()
	return c, nil
}

func collation(tag string) (language.Tag, error) {
	if strings.TrimSpace(tag) == "" {
		return language.Und, nil
	}
	lang, err := language.Parse(tag)
	if err != nil {
		return language.Und, fmt.Errorf("collation %q: %w", tag, err)
	}
	return lang, nil
}

// Root is the absolute folder path, or empty when none was given.
func (c *Core) Root() string { return c.root }

func (c *Core) Bridge() *bridge.Bridge { return c.bridge }

func (c *Core) Commands() *command.Bus { return c.commands }

// Start takes the folder lock, starts the queue and the watcher, and queues
// the initial scan.
func (c *Core) Start() error {
	if c.root != "" {
		lock, err := acquireFolderLock(c.root)
		if err != nil {
			return err
		}
		c.lock = lock
	}

	c.runCtx, c.runCancel = context.WithCancel(context.Background())
	go c.queue.Run(c.runCtx)

	c.queue.Submit(func(ctx context.Context) {
		if err := c.session.Initialize(ctx, c.root); err != nil && !errors.Is(err, session.ErrNoFolder) {
			logging.Error(err)
		}
	})

	if c.root != "" {
		c.startWatcher()
	}

	c.signals = make(chan os.Signal, 1)
	signal.Notify(c.signals, syscall.SIGHUP)
	c.wg.Add(1)
	go c.handleSignals()
	return nil
}

func (c *Core) startWatcher() {
	c.debouncer = backend.NewDebouncer(c.cfg.Debounce, func() {
		events.Watch.Fire(c.root)
		c.queue.Submit(c.session.Rescan)
	})
	c.watcher = backend.NewWatcher(c.root, c.cfg.PollInterval)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for ev := range c.watcher.Events() {
			if ev.Err != nil {
				logging.Warnf("watch %s: %v", ev.Root, ev.Err)
				continue
			}
			c.debouncer.Notify()
		}
	}()
}

func (c *Core) handleSignals() {
	defer c.wg.Done()
	for sig := range c.signals {
		events.App.Signal(sig.String())
		if err := c.commands.Execute(c.runCtx, command.Request{ID: command.Refresh}); err != nil {
			logging.Error(err)
		}
	}
}

// Stop flushes unsaved captions, stops background work and releases the
// folder lock. Later calls return the first result.
func (c *Core) Stop(ctx context.Context) error {
	c.stopOnce.Do(func() {
		c.stopErr = c.stop(ctx)
	})
	return c.stopErr
}

func (c *Core) stop(ctx context.Context) error {
	if c.runCtx == nil {
		return nil
	}
	var errs []error

	if c.watcher != nil {
		c.watcher.Stop()
	}
	if c.debouncer != nil {
		c.debouncer.Stop()
	}
	signal.Stop(c.signals)
	close(c.signals)

	dirty := 0
	flushed := c.queue.Do(ctx, func(jobCtx context.Context) {
		dirty = c.session.Dirty()
		if err := c.session.Close(jobCtx); err != nil {
			errs = append(errs, fmt.Errorf("flush captions: %w", err))
		}
	})
	if !flushed {
		errs = append(errs, fmt.Errorf("flush captions: %w", ErrStopped))
	}
	events.App.Stop(c.root, dirty)

	c.queue.Close()
	select {
	case <-c.queue.Done():
	case <-ctx.Done():
		errs = append(errs, ctx.Err())
	}
	c.runCancel()
	c.wg.Wait()

	if err := c.bridge.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close surface: %w", err))
	}
	if c.lock != nil {
		if err := c.lock.release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Core) onShow() {
	c.queue.Submit(func(context.Context) {
		c.session.EmitList()
		c.session.EmitView()
	})
}

func (c *Core) deliver(in bridge.Inbound) {
	if !c.queue.Submit(func(ctx context.Context) { c.dispatch.Handle(ctx, in) }) {
		logging.Warnf("dropping %s: %v", in.Type, ErrStopped)
	}
}

func (c *Core) registerCommands() {
	c.commands.Register(command.Open, c.open)
	c.commands.Register(command.Refresh, func(context.Context, command.Request) error {
		return c.submit(c.refresh)
	})
	c.commands.Register(command.Next, func(_ context.Context, req command.Request) error {
		return c.submit(func(ctx context.Context) {
			c.session.Navigate(ctx, session.Forward, req.Step)
		})
	})
	c.commands.Register(command.Previous, func(_ context.Context, req command.Request) error {
		return c.submit(func(ctx context.Context) {
			c.session.Navigate(ctx, session.Backward, req.Step)
		})
	})
}

func (c *Core) open(context.Context, command.Request) error {
	_, err := c.bridge.Show()
	if errors.Is(err, bridge.ErrNoFactory) {
		if c.opts.OpenHint != "" {
			logging.Infof("open %s to view %s", c.opts.OpenHint, c.root)
		}
		err = nil
	}
	if err != nil {
		return err
	}
	return c.submit(func(ctx context.Context) {
		if !c.session.Ready() {
			c.refresh(ctx)
		}
	})
}

// refresh opens the folder on first use and rescans it afterwards.
func (c *Core) refresh(ctx context.Context) {
	if c.session.Ready() {
		c.session.Rescan(ctx)
		return
	}
	if err := c.session.Initialize(ctx, c.root); err != nil && !errors.Is(err, session.ErrNoFolder) {
		logging.Error(err)
	}
}

func (c *Core) submit(job backend.Job) error {
	if !c.queue.Submit(job) {
		return ErrStopped
	}
	return nil
}
