// Package log provides category-tagged leveled logging for creatureai.
//
// Entries are written as single lines:
//
//	2025-12-06T10:45:00 [WARN] [db] message key=value key2=value2
//
// A process-wide default logger is configured with Init or SetDefault. A
// *Logger can also be built directly with New; all of its methods are safe to
// call on a nil receiver, in which case the default logger is used.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/creatureai/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config value to a Level. Unknown values yield LevelInfo.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Category groups related log messages.
type Category string

const (
	CatAI      Category = "ai"      // AI controller selection
	CatMoveGen Category = "movegen" // Movement generator selection
	CatDB      Category = "db"      // Content data anomalies (bad AI names, unknown entries)
	CatScript  Category = "script"  // Script override hook and JS runtime
	CatConfig  Category = "config"  // Configuration loading/saving
	CatContent Category = "content" // Content store access
	CatCache   Category = "cache"   // Cache operations
	CatTrace   Category = "trace"   // Tracing provider lifecycle
	CatApp     Category = "app"     // Startup and shutdown
)

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{CatAI, CatMoveGen, CatDB, CatScript, CatConfig, CatContent, CatCache, CatTrace, CatApp}
}

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	muted    map[Category]bool
	broker   *pubsub.Broker[string]
	now      func() time.Time
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *Logger
)

// New creates an enabled logger writing to w at debug level.
func New(w io.Writer) *Logger {
	return &Logger{
		writer:   w,
		enabled:  true,
		minLevel: LevelDebug,
		muted:    make(map[Category]bool),
		broker:   pubsub.NewBroker[string](),
		now:      time.Now,
	}
}

// Init opens path for appending and installs it as the default logger.
// Returns a cleanup function that closes the log file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is the user-configured log file
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f)
	l.file = f
	SetDefault(l)
	return func() {
		SetDefault(nil)
		l.broker.Close()
		_ = f.Close()
	}, nil
}

// SetDefault replaces the default logger. A nil logger disables package-level logging.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the current default logger, which may be nil.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func (l *Logger) resolve() *Logger {
	if l != nil {
		return l
	}
	return Default()
}

// SetEnabled toggles logging on/off.
func (l *Logger) SetEnabled(enabled bool) {
	if l = l.resolve(); l == nil {
		return
	}
	l.mu.Lock()
	l.enabled = enabled
	l.mu.Unlock()
}

// SetMinLevel sets the minimum log level.
func (l *Logger) SetMinLevel(level Level) {
	if l = l.resolve(); l == nil {
		return
	}
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

// SetCategoryEnabled mutes or unmutes a single category.
func (l *Logger) SetCategoryEnabled(cat Category, enabled bool) {
	if l = l.resolve(); l == nil {
		return
	}
	l.mu.Lock()
	if enabled {
		delete(l.muted, cat)
	} else {
		l.muted[cat] = true
	}
	l.mu.Unlock()
}

// Debug logs at debug level.
func (l *Logger) Debug(cat Category, msg string, fields ...any) {
	l.resolve().log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func (l *Logger) Info(cat Category, msg string, fields ...any) {
	l.resolve().log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func (l *Logger) Warn(cat Category, msg string, fields ...any) {
	l.resolve().log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func (l *Logger) Error(cat Category, msg string, fields ...any) {
	l.resolve().log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func (l *Logger) ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	l.resolve().log(LevelError, cat, msg, fields...)
}

// NewListener subscribes to every entry written after the call.
// The subscription ends when ctx is cancelled.
func (l *Logger) NewListener(ctx context.Context) <-chan pubsub.Event[string] {
	if l = l.resolve(); l == nil {
		return nil
	}
	return l.broker.Subscribe(ctx)
}

func (l *Logger) log(level Level, cat Category, msg string, fields ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel || l.muted[cat] {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", l.now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	entry := b.String()

	if l.writer != nil {
		_, _ = io.WriteString(l.writer, entry)
	}
	l.broker.Publish(pubsub.LoggedEvent, entry)
}

// Debug logs at debug level on the default logger.
func Debug(cat Category, msg string, fields ...any) { Default().log(LevelDebug, cat, msg, fields...) }

// Info logs at info level on the default logger.
func Info(cat Category, msg string, fields ...any) { Default().log(LevelInfo, cat, msg, fields...) }

// Warn logs at warning level on the default logger.
func Warn(cat Category, msg string, fields ...any) { Default().log(LevelWarn, cat, msg, fields...) }

// Error logs at error level on the default logger.
func Error(cat Category, msg string, fields ...any) { Default().log(LevelError, cat, msg, fields...) }

// ErrorErr logs an error with the error value on the default logger.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	var l *Logger
	l.ErrorErr(cat, msg, err, fields...)
}
