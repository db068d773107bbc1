package events

import "github.com/atomicstack/caption-pair-manager/internal/logging"

type ScanTracer struct{}

var Scan = ScanTracer{}

func (ScanTracer) Start(root string) {
	logging.Trace("scan.start", map[string]interface{}{"root": root})
}

func (ScanTracer) Done(root string, files, pairs int) {
	logging.Trace("scan.done", map[string]interface{}{"root": root, "files": files, "pairs": pairs})
}

func (ScanTracer) Skip(name, reason string) {
	logging.Trace("scan.skip", map[string]interface{}{"name": name, "reason": reason})
}
