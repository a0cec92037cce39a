package httpclient

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the structured logging interface accepted by the client and the
// retry transport. A nil logger disables logging entirely.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ZeroLogger adapts a zerolog.Logger to the Logger interface.
type ZeroLogger struct {
	zlog zerolog.Logger
}

// Ensure ZeroLogger implements the interface
var _ Logger = (*ZeroLogger)(nil)

// NewZeroLogger creates a zerolog-backed logger writing to stderr at the
// given level. Unknown levels fall back to info.
func NewZeroLogger(level string) *ZeroLogger {
	return NewZeroLoggerWithOutput(os.Stderr, level)
}

// NewZeroLoggerWithOutput creates a zerolog-backed logger on a custom writer.
func NewZeroLoggerWithOutput(w io.Writer, level string) *ZeroLogger {
	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}

	l := zerolog.New(w).With().Timestamp().Logger().Level(zLevel)
	return &ZeroLogger{zlog: l}
}

// Debug logs at debug level with key-value pairs.
func (l *ZeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Debug(), msg, keysAndValues)
}

// Info logs at info level with key-value pairs.
func (l *ZeroLogger) Info(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Info(), msg, keysAndValues)
}

// Warn logs at warn level with key-value pairs.
func (l *ZeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Warn(), msg, keysAndValues)
}

// Error logs at error level with key-value pairs.
func (l *ZeroLogger) Error(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Error(), msg, keysAndValues)
}

func (l *ZeroLogger) emit(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		event = event.Interface(key, keysAndValues[i+1])
	}
	event.Msg(msg)
}
