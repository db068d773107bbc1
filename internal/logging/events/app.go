package events

import "github.com/atomicstack/caption-pair-manager/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(root string, dirty int) {
	logging.Trace("app.stop", map[string]interface{}{"root": root, "dirty": dirty})
}

func (AppTracer) Signal(name string) {
	logging.Trace("app.signal", map[string]interface{}{"signal": name})
}
