package png

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var loggerPtr atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.Nop()
	loggerPtr.Store(&l)
}

// SetLogger replaces the package logger. The default discards everything.
// Safe for concurrent use.
func SetLogger(l zerolog.Logger) {
	loggerPtr.Store(&l)
}

func Logger() *zerolog.Logger {
	return loggerPtr.Load()
}
