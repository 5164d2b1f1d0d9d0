package pipeline

import (
	"io"
	"log"
)

var (
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures the three logging streams for the pipeline
// package. Pass nil for any writer to disable that stream. High-frequency
// per-frame telemetry goes to trace; startup and state transitions to diag;
// fatal configuration problems and dropped data to ops.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = newLogger(ops)
	diagLogger = newLogger(diag)
	traceLogger = newLogger(trace)
}

// SetLegacyLogger routes all three streams to a single writer. Pass nil to
// disable all logging.
func SetLegacyLogger(w io.Writer) {
	SetLogWriters(w, w, w)
}

func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, "[tracker] ", log.LstdFlags|log.Lmicroseconds)
}

// opsf logs to the ops stream (fatal configuration errors, sink failures).
func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

// diagf logs to the diag stream (startup transitions, mode changes).
func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

// tracef logs to the trace stream (per-tick frame telemetry).
func tracef(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Printf(format, args...)
	}
}
