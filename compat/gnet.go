// FILE: compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/sink"
)

// GnetAdapter exposes a sink.Writer as a gnet logging.Logger.
type GnetAdapter struct {
	writer       *sink.Writer
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(writer *sink.Writer, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		writer: writer,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.writer.Write("DEBUG gnet: " + fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.writer.Write("INFO gnet: " + fmt.Sprintf(format, args...))
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.writer.Write("WARN gnet: " + fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.writer.Write("ERROR gnet: " + fmt.Sprintf(format, args...))
}

// Fatalf logs at error level, drains the sink and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.writer.Write("FATAL gnet: " + msg)

	// Ensure the line reaches the file before exit
	_ = a.writer.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
