// Package logger provides levelled logging for the SportsCom bot.
// Debug, Info and Warn lines are printed only in verbose mode (--verbose).
// Error lines are always printed so operators see failed generations
// and reloads even on a quiet server.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// write holds the full lock so lines from concurrent requests never interleave.
func write(always bool, level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose || always {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(false, "DEBUG", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(false, "INFO", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write(false, "WARN", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	write(true, "ERROR", format, args...)
}

// Request tags every line with a request correlation id.
type Request struct {
	id string
}

// ForRequest returns a logger whose lines start with request=<id>.
func ForRequest(id string) Request {
	return Request{id: id}
}

// ID returns the correlation id.
func (r Request) ID() string {
	return r.id
}

func (r Request) prefix(format string) string {
	return "request=" + r.id + " " + format
}

// Debug prints a tagged debug line.
func (r Request) Debug(format string, args ...any) {
	write(false, "DEBUG", r.prefix(format), args...)
}

// Info prints a tagged info line.
func (r Request) Info(format string, args ...any) {
	write(false, "INFO", r.prefix(format), args...)
}

// Warn prints a tagged warning line.
func (r Request) Warn(format string, args ...any) {
	write(false, "WARN", r.prefix(format), args...)
}

// Error prints a tagged error line regardless of verbose mode.
func (r Request) Error(format string, args ...any) {
	write(true, "ERROR", r.prefix(format), args...)
}
