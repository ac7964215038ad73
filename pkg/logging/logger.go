package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// encoder renders one entry, including the trailing newline.
type encoder func(t time.Time, level Level, msg string, fields []Field) []byte

// core is the state JSONLogger and TextLogger share. Loggers derived with
// With keep the parent's lock, so concurrent workers never interleave lines.
type core struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
	encode encoder
}

func newCore(writer io.Writer, level Level, encode encoder) core {
	return core{writer: writer, level: level, mu: &sync.Mutex{}, encode: encode}
}

func (c *core) log(level Level, msg string, fields []Field) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if level < c.level {
		return
	}
	c.writer.Write(c.encode(time.Now(), level, msg, appendFields(c.fields, fields)))
}

func (c *core) child(fields []Field) core {
	c.mu.Lock()
	defer c.mu.Unlock()

	derived := *c
	derived.fields = appendFields(c.fields, fields)
	return derived
}

// Debug logs a debug-level message
func (c *core) Debug(msg string, fields ...Field) { c.log(DebugLevel, msg, fields) }

// Info logs an info-level message
func (c *core) Info(msg string, fields ...Field) { c.log(InfoLevel, msg, fields) }

// Warn logs a warning-level message
func (c *core) Warn(msg string, fields ...Field) { c.log(WarnLevel, msg, fields) }

// Error logs an error-level message
func (c *core) Error(msg string, fields ...Field) { c.log(ErrorLevel, msg, fields) }

// SetLevel sets the minimum log level
func (c *core) SetLevel(level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

// GetLevel returns the current log level
func (c *core) GetLevel() Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

func appendFields(base, extra []Field) []Field {
	out := make([]Field, len(base)+len(extra))
	copy(out, base)
	copy(out[len(base):], extra)
	return out
}

// New creates a logger writing to writer in the given format.
func New(writer io.Writer, format Format, level Level) Logger {
	if format == FormatJSON {
		return NewJSONLogger(writer, level)
	}
	return NewTextLogger(writer, level)
}

// NewJSONLogger creates a logger writing one JSON object per line
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{core: newCore(writer, level, encodeJSON)}
}

// With creates a child logger with the given fields pre-set
func (l *JSONLogger) With(fields ...Field) Logger {
	return &JSONLogger{core: l.child(fields)}
}

// encodeJSON keeps the last value of a repeated key.
func encodeJSON(t time.Time, level Level, msg string, fields []Field) []byte {
	entry := LogEntry{
		Time:    t.Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(fields) > 0 {
		entry.Fields = make(map[string]any, len(fields))
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Appendf(nil, "[ERROR] Failed to marshal log entry: %v\n", err)
	}
	return append(data, '\n')
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: OrNop(logger),
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at info level with its latency
func (t *TimedOperation) End(fields ...Field) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Info(t.msg, append(appendFields(t.fields, fields), Latency(elapsed))...)
	return elapsed
}

// EndError logs the operation as an error with its latency
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Error(t.msg, append(appendFields(t.fields, nil), Latency(elapsed), Error(err))...)
	return elapsed
}
