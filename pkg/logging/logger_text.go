package logging

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// NewTextLogger creates a logger for terminals and plain log files
func NewTextLogger(writer io.Writer, level Level) *TextLogger {
	return &TextLogger{core: newCore(writer, level, encodeText)}
}

// With creates a child logger with the given fields pre-set
func (l *TextLogger) With(fields ...Field) Logger {
	return &TextLogger{core: l.child(fields)}
}

// encodeText writes "time [LEVEL] msg key=value ..." with fields in
// insertion order, preset fields first.
func encodeText(t time.Time, level Level, msg string, fields []Field) []byte {
	var b strings.Builder
	b.WriteString(t.Format("2006-01-02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	for _, f := range fields {
		writeTextField(&b, f)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func writeTextField(b *strings.Builder, f Field) {
	b.WriteByte(' ')
	b.WriteString(f.Key)
	b.WriteByte('=')
	v := fmt.Sprint(f.Value)
	if f.Value == nil {
		v = "<nil>"
	}
	if v == "" || strings.ContainsAny(v, " \t\"=") {
		v = fmt.Sprintf("%q", v)
	}
	b.WriteString(v)
}
