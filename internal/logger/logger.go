package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// Level represents the logging level
type Level int

const (
	// DEBUG level for detailed debugging information
	DEBUG Level = iota
	// INFO level for informational messages
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a config string into a Level; unknown strings map to INFO
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger writes leveled messages to a daily-rotated file
type Logger struct {
	mu            sync.RWMutex
	level         Level
	file          *os.File
	out           *log.Logger
	logDir        string
	currentDay    string
	retentionDays int
}

// Config holds logger configuration
type Config struct {
	LogDir        string
	Level         Level
	RetentionDays int
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	logDir := filepath.Join(xdg.StateHome, "openterface", "logs")

	return Config{
		LogDir:        logDir,
		Level:         INFO,
		RetentionDays: 7,
	}
}

// New creates a new logger
func New(config Config) (*Logger, error) {
	l := &Logger{
		level:         config.Level,
		logDir:        config.LogDir,
		retentionDays: config.RetentionDays,
	}

	if err := l.rotate(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return l, nil
}

// rotate opens a fresh log file when the day changes
func (l *Logger) rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := time.Now().Format("20060102")
	if l.currentDay == today && l.file != nil {
		return nil
	}

	if l.file != nil {
		l.file.Close()
	}

	if err := os.MkdirAll(l.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(l.logDir, fmt.Sprintf("openterface-%s.log", today))
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.file = file
	l.currentDay = today
	l.out = log.New(file, "", log.LstdFlags)

	if err := l.cleanOldLogs(); err != nil {
		l.out.Printf("[WARN] failed to clean old logs: %v", err)
	}

	return nil
}

// cleanOldLogs deletes log files older than retentionDays
func (l *Logger) cleanOldLogs() error {
	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)

	entries, err := os.ReadDir(l.logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			// Best effort: a file we cannot remove is left for the next run
			os.Remove(filepath.Join(l.logDir, entry.Name()))
		}
	}

	return nil
}

// write emits a message at the given level if it passes the threshold
func (l *Logger) write(level Level, format string, v ...interface{}) {
	l.mu.RLock()
	threshold := l.level
	currentDay := l.currentDay
	l.mu.RUnlock()

	if level < threshold {
		return
	}

	if currentDay != time.Now().Format("20060102") {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to rotate log: %v\n", err)
		}
	}

	l.mu.RLock()
	out := l.out
	l.mu.RUnlock()

	if out != nil {
		out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.write(DEBUG, format, v...)
}

// Info logs an informational message
func (l *Logger) Info(format string, v ...interface{}) {
	l.write(INFO, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.write(WARN, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.write(ERROR, format, v...)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
}

// GetLevel returns the current logging level
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.level
}
