package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level
type Level int

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	TRACE: "TRACE",
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// MarshalJSON renders the level by name.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// Component represents the logging component
type Component string

const (
	ComponentApp      Component = "app"
	ComponentPlayer   Component = "player"
	ComponentVariants Component = "variants"
	ComponentTransfer Component = "transfer"
	ComponentClient   Component = "client"
	ComponentScript   Component = "script"
)

// Format represents the log output format
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatColor
)

// Config holds logger configuration
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer
	Components map[Component]bool
	ShowCaller bool
	Timestamp  bool
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  INFO,
		Format: FormatText,
		Output: os.Stderr,
		Components: map[Component]bool{
			ComponentApp:      true,
			ComponentPlayer:   true,
			ComponentVariants: true,
			ComponentTransfer: true,
			ComponentClient:   false,
			ComponentScript:   true,
		},
		ShowCaller: false,
		Timestamp:  false,
	}
}

// Entry represents a single log entry
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     Level                  `json:"level"`
	Component Component              `json:"component"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
}

// Logger provides structured logging functionality
type Logger struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a new logger instance
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Components == nil {
		config.Components = make(map[Component]bool)
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}
	return &Logger{
		config: config,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(&Config{Level: ERROR + 1, Output: io.Discard, Components: map[Component]bool{}})
}

// WithComponent creates a new logger instance for a specific component
func (l *Logger) WithComponent(component Component) *ComponentLogger {
	if l == nil {
		l = Nop()
	}
	return &ComponentLogger{
		logger:    l,
		component: component,
	}
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Level = level
}

// log writes a log entry. Writes are serialized so concurrent callers never
// interleave partial lines.
func (l *Logger) log(level Level, component Component, message string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.config.Level {
		return
	}
	if !l.config.Components[component] {
		return
	}

	entry := Entry{
		Timestamp: time.Now(),
		Level:     level,
		Component: component,
		Message:   message,
		Fields:    fields,
	}

	if l.config.ShowCaller {
		// log <- ComponentLogger.log <- ComponentLogger.<Level> <- caller
		if _, file, line, ok := runtime.Caller(3); ok {
			entry.Caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}

	l.writeEntry(entry)
}

// writeEntry writes the log entry to output
func (l *Logger) writeEntry(entry Entry) {
	var output string

	switch l.config.Format {
	case FormatJSON:
		output = l.formatJSON(entry)
	case FormatColor:
		output = l.formatColor(entry)
	default:
		output = l.formatText(entry)
	}

	fmt.Fprintln(l.config.Output, output)
}

// formatText formats entry as plain text
func (l *Logger) formatText(entry Entry) string {
	var parts []string

	if l.config.Timestamp {
		parts = append(parts, entry.Timestamp.Format("2006-01-02 15:04:05"))
	}

	parts = append(parts, fmt.Sprintf("[%s]", entry.Level))
	parts = append(parts, fmt.Sprintf("[%s]", entry.Component))
	parts = append(parts, entry.Message)

	if entry.Caller != "" {
		parts = append(parts, fmt.Sprintf("(%s)", entry.Caller))
	}

	if len(entry.Fields) > 0 {
		var fieldParts []string
		for _, k := range sortedKeys(entry.Fields) {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		parts = append(parts, strings.Join(fieldParts, " "))
	}

	return strings.Join(parts, " ")
}

// formatJSON formats entry as JSON
func (l *Logger) formatJSON(entry Entry) string {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"level":%q,"component":%q,"message":%q}`, entry.Level, entry.Component, entry.Message)
	}
	return string(data)
}

// formatColor formats entry with colors
func (l *Logger) formatColor(entry Entry) string {
	var parts []string

	if l.config.Timestamp {
		parts = append(parts, "\033[90m"+entry.Timestamp.Format("2006-01-02 15:04:05")+"\033[0m")
	}

	levelColor := l.getLevelColor(entry.Level)
	parts = append(parts, fmt.Sprintf("%s[%s]\033[0m", levelColor, entry.Level))
	parts = append(parts, fmt.Sprintf("\033[36m[%s]\033[0m", entry.Component))
	parts = append(parts, entry.Message)

	if entry.Caller != "" {
		parts = append(parts, fmt.Sprintf("\033[90m(%s)\033[0m", entry.Caller))
	}

	if len(entry.Fields) > 0 {
		var fieldParts []string
		for _, k := range sortedKeys(entry.Fields) {
			fieldParts = append(fieldParts, fmt.Sprintf("\033[33m%s\033[0m=\033[32m%v\033[0m", k, entry.Fields[k]))
		}
		parts = append(parts, strings.Join(fieldParts, " "))
	}

	return strings.Join(parts, " ")
}

// getLevelColor returns color code for log level
func (l *Logger) getLevelColor(level Level) string {
	switch level {
	case TRACE:
		return "\033[37m" // White
	case DEBUG:
		return "\033[94m" // Blue
	case INFO:
		return "\033[92m" // Green
	case WARN:
		return "\033[93m" // Yellow
	case ERROR:
		return "\033[91m" // Red
	default:
		return "\033[0m" // Reset
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ComponentLogger provides component-specific logging
type ComponentLogger struct {
	logger    *Logger
	component Component
	fields    map[string]interface{}
}

// With returns a copy of the component logger that attaches fields to every entry.
func (cl *ComponentLogger) With(fields map[string]interface{}) *ComponentLogger {
	merged := make(map[string]interface{}, len(cl.fields)+len(fields))
	for k, v := range cl.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &ComponentLogger{logger: cl.logger, component: cl.component, fields: merged}
}

// Trace logs a trace message
func (cl *ComponentLogger) Trace(message string, fields ...map[string]interface{}) {
	cl.log(TRACE, message, fields...)
}

// Debug logs a debug message
func (cl *ComponentLogger) Debug(message string, fields ...map[string]interface{}) {
	cl.log(DEBUG, message, fields...)
}

// Info logs an info message
func (cl *ComponentLogger) Info(message string, fields ...map[string]interface{}) {
	cl.log(INFO, message, fields...)
}

// Warn logs a warning message
func (cl *ComponentLogger) Warn(message string, fields ...map[string]interface{}) {
	cl.log(WARN, message, fields...)
}

// Error logs an error message
func (cl *ComponentLogger) Error(message string, fields ...map[string]interface{}) {
	cl.log(ERROR, message, fields...)
}

// log writes a log entry for the component
func (cl *ComponentLogger) log(level Level, message string, fields ...map[string]interface{}) {
	var merged map[string]interface{}
	if len(cl.fields) > 0 || len(fields) > 0 {
		merged = make(map[string]interface{}, len(cl.fields))
		for k, v := range cl.fields {
			merged[k] = v
		}
		for _, f := range fields {
			for k, v := range f {
				merged[k] = v
			}
		}
	}
	cl.logger.log(level, cl.component, message, merged)
}
