// Package logging provides structured logging for lazyscan.
//
// Loggers are constructed once at process entry and passed into components
// explicitly; there is no package-level logger to reach for.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(s)) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(strings.ToLower(s))
	}
	return LevelInfo
}

// Logger writes structured entries to a single output stream.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format Format
	out    io.Writer
	fields map[string]any
}

type entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// New creates a logger writing to out.
func New(out io.Writer, level Level, format Format) *Logger {
	if format != FormatJSON {
		format = FormatText
	}
	return &Logger{
		level:  level,
		format: format,
		out:    out,
		fields: map[string]any{},
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(io.Discard, LevelError, FormatText)
}

// With returns a child logger carrying additional fields.
func (l *Logger) With(fields map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{level: l.level, format: l.format, out: l.out, fields: merged}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...map[string]any) { l.log(LevelDebug, msg, fields...) }

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...map[string]any) { l.log(LevelInfo, msg, fields...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...map[string]any) { l.log(LevelWarn, msg, fields...) }

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...map[string]any) { l.log(LevelError, msg, fields...) }

// ErrorErr logs an error value alongside a message.
func (l *Logger) ErrorErr(msg string, err error, fields ...map[string]any) {
	combined := map[string]any{"error": err.Error()}
	for _, f := range fields {
		for k, v := range f {
			combined[k] = v
		}
	}
	l.log(LevelError, msg, combined)
}

func (l *Logger) log(level Level, msg string, fields ...map[string]any) {
	if levelRank[level] < levelRank[l.level] {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
	}
	if len(l.fields) > 0 || len(fields) > 0 {
		e.Fields = make(map[string]any, len(l.fields))
		for k, v := range l.fields {
			e.Fields[k] = v
		}
		for _, f := range fields {
			for k, v := range f {
				e.Fields[k] = v
			}
		}
	}

	switch l.format {
	case FormatJSON:
		data, err := json.Marshal(e)
		if err != nil {
			fmt.Fprintln(l.out, `{"level":"error","message":"failed to marshal log entry"}`)
			return
		}
		l.out.Write(append(data, '\n'))
	default:
		var b strings.Builder
		b.WriteString(e.Timestamp)
		b.WriteByte(' ')
		b.WriteString(strings.ToUpper(string(level)))
		b.WriteByte(' ')
		b.WriteString(msg)
		if len(e.Fields) > 0 {
			keys := make([]string, 0, len(e.Fields))
			for k := range e.Fields {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
			}
		}
		fmt.Fprintln(l.out, b.String())
	}
}
