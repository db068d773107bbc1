package events

import "github.com/atomicstack/caption-pair-manager/internal/logging"

type UITracer struct{}

type JumpTracer struct{}

var (
	UI   = UITracer{}
	Jump = JumpTracer{}
)

func (UITracer) Key(mode, key string) {
	logging.Trace("ui.key", map[string]interface{}{"mode": mode, "key": key})
}

func (UITracer) Mode(from, to string) {
	logging.Trace("ui.mode", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Send(msgType string) {
	logging.Trace("ui.send", map[string]interface{}{"type": msgType})
}

func (UITracer) Receive(msgType string) {
	logging.Trace("ui.receive", map[string]interface{}{"type": msgType})
}

func (JumpTracer) Filter(query string, matches int) {
	logging.Trace("jump.filter", map[string]interface{}{"query": query, "matches": matches})
}

func (JumpTracer) Select(name string, index int) {
	logging.Trace("jump.select", map[string]interface{}{"name": name, "index": index})
}

func (JumpTracer) Cancel(query string) {
	logging.Trace("jump.cancel", map[string]interface{}{"query": query})
}
