// Package logger exposes the process-wide sugared logger used by every
// layer. The level is fixed at first use; it comes from config in main.
package logger

import (
	"sync"
)

// Accepted log level strings.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton logger. The level argument only matters on
// the first call; later calls return the already initialized instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
