package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Level names double as log file stems (info.log, warning.log, error.log).
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Levels lists every level that has its own log file.
var Levels = []string{LevelInfo, LevelWarning, LevelError}

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	logDir     string
	files      []*os.File
	mu         sync.Mutex
}

// New creates a Logger writing to logDir and ensures the directory exists.
func New(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &Logger{logDir: logDir}

	writers := make(map[string]io.Writer, len(Levels))
	for _, level := range Levels {
		file, err := os.OpenFile(l.FilePath(level), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("failed to open log file %s: %w", l.FilePath(level), err)
		}
		l.files = append(l.files, file)

		console := io.Writer(os.Stdout)
		if level == LevelError {
			console = os.Stderr
		}
		writers[level] = io.MultiWriter(console, file)
	}

	l.setupLoggers(writers[LevelInfo], writers[LevelWarning], writers[LevelError])
	return l, nil
}

// NewWithWriters builds a Logger without log files, used by tests and tools.
func NewWithWriters(info, warning, errs io.Writer) *Logger {
	l := &Logger{}
	l.setupLoggers(info, warning, errs)
	return l
}

// Discard returns a Logger that drops every entry.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard, io.Discard)
}

func (l *Logger) setupLoggers(info, warning, errs io.Writer) {
	l.infoLog = log.New(info, "ℹ️  INFO    ", log.Ldate|log.Ltime|log.Lshortfile)
	l.warningLog = log.New(warning, "⚠️  WARNING ", log.Ldate|log.Ltime|log.Lshortfile)
	l.errorLog = log.New(errs, "❌ ERROR   ", log.Ldate|log.Ltime|log.Lshortfile)
}

// FilePath returns the file backing the given level.
func (l *Logger) FilePath(level string) string {
	return filepath.Join(l.logDir, level+".log")
}

// Dir returns the log directory, empty for writer-only loggers.
func (l *Logger) Dir() string {
	return l.logDir
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// CleanLogs truncates the log file of the given level.
func (l *Logger) CleanLogs(level string) error {
	if l.logDir == "" {
		return fmt.Errorf("logger has no log directory")
	}

	l.mu.Lock()
	err := os.Truncate(l.FilePath(level), 0)
	l.mu.Unlock()
	if err != nil {
		l.Error("Error clearing %s log: %v", level, err)
		return err
	}

	l.Info("%s log has been cleared.", level)
	return nil
}

// Close closes the underlying log files.
func (l *Logger) Close() {
	for _, f := range l.files {
		f.Close()
	}
	l.files = nil
}
