package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "caption-pair-manager.log"

// Level tags each entry written to the log file.
type Level string

const (
	LevelTrace Level = "trace"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
)

type entry struct {
	Time    time.Time   `json:"time"`
	Level   Level       `json:"level"`
	Event   string      `json:"event,omitempty"`
	Message string      `json:"msg,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Error records a failure. Nil errors are ignored.
func Error(err error) {
	if err == nil {
		return
	}
	write(entry{Level: LevelError, Message: err.Error()})
}

// Warnf records a degraded but non-fatal condition.
func Warnf(format string, args ...interface{}) {
	write(entry{Level: LevelWarn, Message: fmt.Sprintf(format, args...)})
}

// Infof records an informational message.
func Infof(format string, args ...interface{}) {
	write(entry{Level: LevelInfo, Message: fmt.Sprintf(format, args...)})
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace currently writes entries.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured entry when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}
	write(entry{Level: LevelTrace, Event: event, Payload: payload})
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Path returns the current log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

func write(e entry) {
	e.Time = time.Now().UTC()

	mu.Lock()
	defer mu.Unlock()
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
		return
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(e); err != nil {
		fmt.Fprintf(os.Stderr, "log encoding failed: %v\n", err)
	}
}
