package events

import "github.com/atomicstack/caption-pair-manager/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Initialize(root string) {
	logging.Trace("session.initialize", map[string]interface{}{"root": root})
}

func (SessionTracer) Rescan(total, index int) {
	logging.Trace("session.rescan", map[string]interface{}{"total": total, "index": index})
}

func (SessionTracer) Navigate(direction string, step, from, to int) {
	logging.Trace("session.navigate", map[string]interface{}{
		"direction": direction,
		"step":      step,
		"from":      from,
		"to":        to,
	})
}

func (SessionTracer) NavigateNoOp(direction string, step, index int) {
	logging.Trace("session.navigate.noop", map[string]interface{}{"direction": direction, "step": step, "index": index})
}

func (SessionTracer) AutoSave(base string, ok bool) {
	logging.Trace("session.autosave", map[string]interface{}{"base": base, "ok": ok})
}

func (SessionTracer) Save(base string, ok bool) {
	logging.Trace("session.save", map[string]interface{}{"base": base, "ok": ok})
}

func (SessionTracer) Edit(base string, length int) {
	logging.Trace("session.edit", map[string]interface{}{"base": base, "length": length})
}

func (SessionTracer) Tokens(count int, fallback bool) {
	logging.Trace("session.tokens", map[string]interface{}{"count": count, "fallback": fallback})
}

func (SessionTracer) Flush(flushed, failed int) {
	logging.Trace("session.flush", map[string]interface{}{"flushed": flushed, "failed": failed})
}
