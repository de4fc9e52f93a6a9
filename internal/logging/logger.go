package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	// DebugLevel represents debug messages
	DebugLevel LogLevel = iota
	// InfoLevel represents informational messages
	InfoLevel
	// WarnLevel represents warning messages
	WarnLevel
	// ErrorLevel represents error messages
	ErrorLevel
)

var levelNames = map[LogLevel]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

// Logger represents a logger instance
type Logger struct {
	mu            sync.Mutex
	level         LogLevel
	output        io.Writer
	file          *os.File
	maxSize       int64
	maxBackups    int
	maxAge        int
	currentSize   int64
	lastRotation  time.Time
	rotationCount int
	ConsoleOutput bool
}

// Config holds the configuration for the logger
type Config struct {
	// Level is the minimum log level to record
	Level LogLevel
	// MaxSize is the maximum size in megabytes of the log file before it gets rotated
	MaxSize int
	// MaxBackups is the maximum number of old log files to retain
	MaxBackups int
	// MaxAge is the maximum number of days to retain old log files
	MaxAge int
	// ConsoleOutput determines if debug/info logs should be printed to the console
	ConsoleOutput bool
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		MaxSize:    10, // 10MB
		MaxBackups: 5,  // Keep 5 backup files
		MaxAge:     30, // 30 days
	}
}

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		config := DefaultConfig()
		var err error
		globalLogger, err = New(config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			// Create a fallback logger that writes to stderr
			globalLogger = &Logger{
				level:  config.Level,
				output: os.Stderr,
			}
		}
	})
	return globalLogger
}

// New creates a new logger instance using the default log directory
func New(config Config) (*Logger, error) {
	logDir, err := getLogDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get log directory: %w", err)
	}

	logFile := filepath.Join(logDir, "subfont.log")
	return NewWithPath(config, logFile)
}

// NewWithPath creates a new logger instance with a custom log file path
func NewWithPath(config Config, logFilePath string) (*Logger, error) {
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	return &Logger{
		level:         config.Level,
		output:        file,
		file:          file,
		maxSize:       int64(config.MaxSize) * 1024 * 1024,
		maxBackups:    config.MaxBackups,
		maxAge:        config.MaxAge,
		currentSize:   fileInfo.Size(),
		lastRotation:  time.Now(),
		ConsoleOutput: config.ConsoleOutput,
	}, nil
}

// Close closes the logger and its underlying file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// log writes a log message with the given level
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil && l.currentSize >= l.maxSize {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rotate log file: %v\n", err)
			return
		}
	}

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logEntry := fmt.Sprintf("[%s] %s: %s\n", timestamp, levelNames[level], msg)

	if _, err := l.output.Write([]byte(logEntry)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log entry: %v\n", err)
		return
	}

	l.currentSize += int64(len(logEntry))

	if l.ConsoleOutput && (level == DebugLevel || level == InfoLevel) {
		fmt.Print(logEntry)
	}
}

// rotate rotates the log file
func (l *Logger) rotate() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close current log file: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	dir := filepath.Dir(l.file.Name())
	base := filepath.Base(l.file.Name())
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]

	if l.lastRotation.Format("2006-01-02") == timestamp {
		l.rotationCount++
	} else {
		l.rotationCount = 0
	}

	var newName string
	if l.rotationCount > 0 {
		newName = filepath.Join(dir, fmt.Sprintf("%s-%s.%d%s", name, timestamp, l.rotationCount, ext))
	} else {
		newName = filepath.Join(dir, fmt.Sprintf("%s-%s%s", name, timestamp, ext))
	}

	if err := os.Rename(l.file.Name(), newName); err != nil {
		return fmt.Errorf("failed to rename log file: %w", err)
	}

	file, err := os.OpenFile(l.file.Name(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create new log file: %w", err)
	}

	l.file = file
	l.output = file
	l.currentSize = 0
	l.lastRotation = time.Now()

	if err := l.cleanup(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to cleanup old log files: %v\n", err)
	}

	return nil
}

// cleanup removes rotated log files that exceed the age or backup limits
func (l *Logger) cleanup() error {
	dir := filepath.Dir(l.file.Name())
	pattern := filepath.Join(dir, "subfont-*.log")

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to find log files: %w", err)
	}

	now := time.Now()
	var filesToRemove []string
	var remainingFiles []string

	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if l.maxAge > 0 && now.Sub(info.ModTime()) > time.Duration(l.maxAge)*24*time.Hour {
			filesToRemove = append(filesToRemove, match)
			continue
		}
		remainingFiles = append(remainingFiles, match)
	}

	// Newest first, then apply the backup count limit.
	sort.Slice(remainingFiles, func(i, j int) bool {
		infoI, _ := os.Stat(remainingFiles[i])
		infoJ, _ := os.Stat(remainingFiles[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})
	for i, match := range remainingFiles {
		if i >= l.maxBackups {
			filesToRemove = append(filesToRemove, match)
		}
	}

	for _, file := range filesToRemove {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to remove old log file %s: %v\n", file, err)
		}
	}

	return nil
}

// getLogDirectory returns the appropriate log directory for the current OS
func getLogDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "Subfont", "logs"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "subfont"), nil
	default: // Linux and others
		return filepath.Join(homeDir, ".local", "share", "subfont", "logs"), nil
	}
}

// GetLogDirectory returns the appropriate log directory for the current OS
func GetLogDirectory() (string, error) {
	return getLogDirectory()
}
