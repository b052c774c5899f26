package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LogConfig is the serializable form of Config. It is embedded as the [log]
// table of the tnadl config file.
type LogConfig struct {
	Level      string          `json:"level" toml:"level"`
	Format     string          `json:"format" toml:"format"`
	Output     string          `json:"output" toml:"output"`
	Components map[string]bool `json:"components,omitempty" toml:"components,omitempty"`
	ShowCaller bool            `json:"show_caller" toml:"show_caller"`
	Timestamp  bool            `json:"timestamp" toml:"timestamp"`
}

// DefaultLogConfig returns default logging configuration
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:  "INFO",
		Format: "text",
		Output: "stderr",
		Components: map[string]bool{
			string(ComponentApp):      true,
			string(ComponentPlayer):   true,
			string(ComponentVariants): true,
			string(ComponentTransfer): true,
			string(ComponentClient):   false,
			string(ComponentScript):   true,
		},
	}
}

// ToLoggerConfig converts LogConfig to logger.Config
func (c *LogConfig) ToLoggerConfig() (*Config, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}

	format, err := parseFormat(c.Format)
	if err != nil {
		return nil, fmt.Errorf("parse format: %w", err)
	}

	output, err := parseOutput(c.Output)
	if err != nil {
		return nil, fmt.Errorf("parse output: %w", err)
	}

	components := DefaultConfig().Components
	for name, enabled := range c.Components {
		components[Component(name)] = enabled
	}

	return &Config{
		Level:      level,
		Format:     format,
		Output:     output,
		Components: components,
		ShowCaller: c.ShowCaller,
		Timestamp:  c.Timestamp,
	}, nil
}

// ParseLevel parses a level name. Empty means INFO.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown level: %s", levelStr)
	}
}

// parseFormat parses format string to Format enum
func parseFormat(formatStr string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(formatStr)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "color", "colored":
		return FormatColor, nil
	default:
		return FormatText, fmt.Errorf("unknown format: %s", formatStr)
	}
}

// parseOutput parses output string to io.Writer
func parseOutput(outputStr string) (io.Writer, error) {
	switch strings.ToLower(strings.TrimSpace(outputStr)) {
	case "stderr", "":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "null", "none":
		return io.Discard, nil
	}
	if strings.HasPrefix(outputStr, "file:") {
		filePath := strings.TrimPrefix(outputStr, "file:")
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return file, nil
	}
	return nil, fmt.Errorf("unknown output: %s", outputStr)
}

// CreateLoggerFromConfig creates a logger from LogConfig
func CreateLoggerFromConfig(config *LogConfig) (*Logger, error) {
	loggerConfig, err := config.ToLoggerConfig()
	if err != nil {
		return nil, fmt.Errorf("convert config: %w", err)
	}
	return New(loggerConfig), nil
}

// ApplyEnv overrides fields from TNADL_LOG_* environment variables.
func (c *LogConfig) ApplyEnv() {
	if level := os.Getenv("TNADL_LOG_LEVEL"); level != "" {
		c.Level = level
	}
	if format := os.Getenv("TNADL_LOG_FORMAT"); format != "" {
		c.Format = format
	}
	if output := os.Getenv("TNADL_LOG_OUTPUT"); output != "" {
		c.Output = output
	}
	if caller := os.Getenv("TNADL_LOG_CALLER"); caller != "" {
		c.ShowCaller = caller == "true" || caller == "1"
	}
	if timestamp := os.Getenv("TNADL_LOG_TIMESTAMP"); timestamp != "" {
		c.Timestamp = timestamp == "true" || timestamp == "1"
	}
	// A component list switches off everything not named.
	if components := os.Getenv("TNADL_LOG_COMPONENTS"); components != "" {
		c.Components = make(map[string]bool)
		for _, comp := range []Component{ComponentApp, ComponentPlayer, ComponentVariants, ComponentTransfer, ComponentClient, ComponentScript} {
			c.Components[string(comp)] = false
		}
		for _, comp := range strings.Split(components, ",") {
			comp = strings.TrimSpace(comp)
			if comp != "" {
				c.Components[comp] = true
			}
		}
	}
}

// ValidateConfig validates the configuration without opening any file output.
func (c *LogConfig) ValidateConfig() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	if _, err := parseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	out := strings.ToLower(strings.TrimSpace(c.Output))
	switch {
	case out == "", out == "stderr", out == "stdout", out == "null", out == "none":
	case strings.HasPrefix(c.Output, "file:") && len(c.Output) > len("file:"):
	default:
		return fmt.Errorf("invalid output: %s", c.Output)
	}
	return nil
}
