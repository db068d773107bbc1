package events

import "github.com/atomicstack/caption-pair-manager/internal/logging"

type WatchTracer struct{}

var Watch = WatchTracer{}

func (WatchTracer) Change(root string) {
	logging.Trace("watch.change", map[string]interface{}{"root": root})
}

func (WatchTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("watch.error", map[string]interface{}{"error": err.Error()})
}

func (WatchTracer) Fire(root string) {
	logging.Trace("watch.debounce.fire", map[string]interface{}{"root": root})
}
