package logutil

import (
	"math/rand"

	"github.com/golang/glog"
)

// ConditionalLogger emits only a sampled fraction of error messages. It is
// meant for call sites that can fire once per impression, where sustained
// failure would otherwise flood the logs. Every message is still written at
// verbosity 2 for debugging.
type ConditionalLogger struct {
	samplingRate float64
	random       func() float64
	logError     func(format string, args ...any)
	logDebug     func(format string, args ...any)
}

// NewConditionalLogger creates a logger that writes roughly samplingRate of
// the errors handed to it, where samplingRate is in [0, 1].
func NewConditionalLogger(samplingRate float64) *ConditionalLogger {
	return &ConditionalLogger{
		samplingRate: samplingRate,
		random:       rand.Float64,
		logError:     glog.Errorf,
		logDebug: func(format string, args ...any) {
			glog.V(2).Infof(format, args...)
		},
	}
}

// Errorf logs the message at error level for a sampled subset of calls.
func (l *ConditionalLogger) Errorf(format string, args ...any) {
	l.logDebug(format, args...)
	if l.random() < l.samplingRate {
		l.logError(format, args...)
	}
}
