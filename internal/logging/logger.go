// Package logging wraps the logging backend behind a small interface so the
// cleaning stages can be exercised with a capturing logger in tests.
package logging

// Logger is the structured logger handed to every component by constructor
// injection.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a derived logger carrying err
	WithError(err error) Logger

	// WithField returns a derived logger carrying one extra field
	WithField(key string, value interface{}) Logger

	// WithFields returns a derived logger carrying the given fields
	WithFields(fields ...Field) Logger

	// Fatal logs at fatal level and terminates the process
	Fatal(msg string, fields ...Field)

	// Fatalf is the printf flavour of Fatal
	Fatalf(msg string, args ...interface{})
}

// Field is a key/value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}
