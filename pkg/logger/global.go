package logger

import (
	"os"
	"sync"
)

var (
	globalLogger *Logger
	mu           sync.RWMutex
)

// GetLogger returns the global logger, creating a JSON stdout logger on
// first use. The level comes from DEBUG or LOG_LEVEL, defaulting to info.
func GetLogger() *Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		level := "info"
		if os.Getenv("DEBUG") == "true" {
			level = "debug"
		} else if v := os.Getenv("LOG_LEVEL"); v != "" {
			level = v
		}
		globalLogger = New(Config{Level: level, Format: "json", Output: "stdout"})
	}
	return globalLogger
}

// SetLogger replaces the global logger. Components capture the logger at
// construction, so call this before building them.
func SetLogger(logger *Logger) {
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
	SetGlobalLogger(logger)
}

func WithFields(fields map[string]interface{}) *Logger {
	return GetLogger().WithFields(fields)
}

func WithError(err error) *Logger {
	return GetLogger().WithError(err)
}
