package events

import "github.com/atomicstack/caption-pair-manager/internal/logging"

type BridgeTracer struct{}

var Bridge = BridgeTracer{}

func (BridgeTracer) Show(created bool) {
	logging.Trace("bridge.show", map[string]interface{}{"created": created})
}

func (BridgeTracer) Attach(replaced bool) {
	logging.Trace("bridge.attach", map[string]interface{}{"replaced": replaced})
}

func (BridgeTracer) Detach() {
	logging.Trace("bridge.detach", nil)
}

func (BridgeTracer) Push(msgType string) {
	logging.Trace("bridge.push", map[string]interface{}{"type": msgType})
}

func (BridgeTracer) Drop(msgType string) {
	logging.Trace("bridge.drop", map[string]interface{}{"type": msgType})
}

func (BridgeTracer) Inbound(msgType string, handled bool) {
	logging.Trace("bridge.inbound", map[string]interface{}{"type": msgType, "handled": handled})
}

func (BridgeTracer) Connection(id, state string) {
	logging.Trace("bridge.connection", map[string]interface{}{"id": id, "state": state})
}
