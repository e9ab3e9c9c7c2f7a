package core

// DebugWriter is a function type for writing console lines
type DebugWriter func(string)

// Logger writes plain console lines to a platform-specific writer.
// Targets route it to UART or USB; tests capture the lines.
type Logger struct {
	out   DebugWriter
	debug bool
}

// NewLogger creates a logger. A nil writer discards everything.
func NewLogger(out DebugWriter, debug bool) *Logger {
	if out == nil {
		out = func(string) {}
	}
	return &Logger{out: out, debug: debug}
}

// SetDebugEnabled enables or disables Debug output
func (l *Logger) SetDebugEnabled(enabled bool) {
	l.debug = enabled
}

// IsDebugEnabled returns whether Debug output is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l.debug
}

func (l *Logger) Info(msg string) {
	l.out(msg)
}

func (l *Logger) Warn(msg string) {
	l.out("WARNING: " + msg)
}

func (l *Logger) Error(msg string) {
	l.out("ERROR: " + msg)
}

// Debug writes only when debug output is enabled
func (l *Logger) Debug(msg string) {
	if l.debug {
		l.out("DEBUG: " + msg)
	}
}
