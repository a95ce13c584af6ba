package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
)

const (
	APP        = "APP"
	CHAT       = "CHAT"
	CONFIG     = "CONFIG"
	EXTRACT    = "EXTRACT"
	HANDLER    = "HANDLER"
	MIDDLEWARE = "MIDDLEWARE"
	RECORDS    = "RECORDS"
	REDIS      = "REDIS"
	SERVICE    = "SERVICE"
	SESSION    = "SESSION"
)

// fileTimeLayout names one log file per process start.
const fileTimeLayout = "2006-01-02_15-04-05"

var (
	mu           sync.RWMutex
	currentLevel = getLogLevel()
	base         = zerolog.New(os.Stderr).With().Timestamp().Logger()
	logFile      *os.File
)

func getLogLevel() LogLevel {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// FileName returns the log file name for a process started at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("log_%s.txt", t.Format(fileTimeLayout))
}

// Init opens a fresh log file under dir and sends every entry to it, and
// to stderr as well when console is set. The zerolog global logger is
// pointed at the same writer so github.com/rs/zerolog/log call sites end
// up in the file too.
func Init(dir string, started time.Time, console bool) (string, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, FileName(started))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	currentLevel = getLogLevel()
	mu.Unlock()

	if console {
		setWriter(zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}))
	} else {
		setWriter(f)
	}
	return path, nil
}

// SetOutput redirects all logging to w and returns a function restoring the
// previous writer. Tests use it to capture output.
func SetOutput(w io.Writer) func() {
	mu.RLock()
	previous := base
	previousGlobal := log.Logger
	mu.RUnlock()

	setWriter(w)

	return func() {
		mu.Lock()
		base = previous
		log.Logger = previousGlobal
		mu.Unlock()
	}
}

func setWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = zerolog.New(w).With().Timestamp().Logger()
	log.Logger = base.Level(currentLevel.zerolog())
}

// Close flushes and closes the log file opened by Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func emit(level LogLevel, zl zerolog.Level, namespace, format string, v ...interface{}) {
	mu.RLock()
	enabled := currentLevel >= level
	l := base
	mu.RUnlock()

	if !enabled {
		return
	}
	l.WithLevel(zl).Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

func Debug(namespace, format string, v ...interface{}) {
	emit(DEBUG, zerolog.DebugLevel, namespace, format, v...)
}

func Info(namespace, format string, v ...interface{}) {
	emit(INFO, zerolog.InfoLevel, namespace, format, v...)
}

func Warn(namespace, format string, v ...interface{}) {
	emit(WARN, zerolog.WarnLevel, namespace, format, v...)
}

func Error(namespace, format string, v ...interface{}) {
	emit(ERROR, zerolog.ErrorLevel, namespace, format, v...)
}

// Fatal records a fatal entry but does not exit; callers decide how to stop.
func Fatal(namespace, format string, v ...interface{}) {
	emit(ERROR, zerolog.FatalLevel, namespace, format, v...)
}
