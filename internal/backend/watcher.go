package backend

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
	"github.com/atomicstack/caption-pair-manager/internal/pairs"
)

// Kind represents the type of change reported by the watcher.
type Kind int

const (
	KindChanged Kind = iota
)

// Event conveys a folder change or an error from a poll.
type Event struct {
	Kind Kind
	Root string
	Err  error
}

// Watcher polls a folder at a fixed interval and publishes an event whenever
// the set of image and caption files (or their sizes and mtimes) changes.
type Watcher struct {
	root     string
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts a watcher for root that polls every interval.
func NewWatcher(root string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		root:     root,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of watcher events. It is closed after Stop once the
// poller exits.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	emit := func(evt Event) bool {
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	last, lastErr := Fingerprint(w.root)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		}
		sum, err := Fingerprint(w.root)
		if err != nil {
			// report each distinct failure once
			if lastErr == nil || lastErr.Error() != err.Error() {
				events.Watch.Error(err)
				if !emit(Event{Kind: KindChanged, Root: w.root, Err: err}) {
					return
				}
			}
			lastErr = err
			continue
		}
		recovered := lastErr != nil
		lastErr = nil
		if sum == last && !recovered {
			continue
		}
		last = sum
		events.Watch.Change(w.root)
		if !emit(Event{Kind: KindChanged, Root: w.root}) {
			return
		}
	}
}

// Fingerprint hashes the names, sizes and modification times of the image and
// caption files directly inside dir.
func Fingerprint(dir string) (uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("fingerprint %s: %w", dir, err)
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !pairs.IsImage(name) && !pairs.IsCaption(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// vanished between listing and stat
			continue
		}
		lines = append(lines, fmt.Sprintf("%s\x00%d\x00%d\x00%s", name, info.Size(), info.ModTime().UnixNano(), info.Mode().Type()))
	}
	sort.Strings(lines)
	h := fnv.New64a()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return h.Sum64(), nil
}
