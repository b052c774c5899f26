package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf
	config.Level = INFO

	logger := New(config)
	compLogger := logger.WithComponent(ComponentApp)

	// Test that DEBUG messages are filtered out
	compLogger.Debug("This should not appear")
	compLogger.Info("This should appear")
	compLogger.Warn("This should appear")
	compLogger.Error("This should appear")

	output := buf.String()
	if strings.Contains(output, "This should not appear") {
		t.Error("DEBUG message should be filtered out")
	}
	if !strings.Contains(output, "This should appear") {
		t.Error("INFO/WARN/ERROR messages should appear")
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf
	config.Level = WARN

	logger := New(config)
	compLogger := logger.WithComponent(ComponentApp)

	compLogger.Info("before")
	logger.SetLevel(DEBUG)
	compLogger.Debug("after")

	output := buf.String()
	if strings.Contains(output, "before") {
		t.Error("INFO message should be filtered at WARN")
	}
	if !strings.Contains(output, "after") {
		t.Error("DEBUG message should appear after SetLevel(DEBUG)")
	}
}

func TestLogger_Components(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf
	config.Components[ComponentTransfer] = false

	logger := New(config)
	appLogger := logger.WithComponent(ComponentApp)
	transferLogger := logger.WithComponent(ComponentTransfer)

	appLogger.Info("App message")
	transferLogger.Info("Transfer message")

	output := buf.String()
	if !strings.Contains(output, "App message") {
		t.Error("App message should appear")
	}
	if strings.Contains(output, "Transfer message") {
		t.Error("Transfer message should be filtered out")
	}
}

func TestLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf
	config.Format = FormatJSON

	logger := New(config)
	compLogger := logger.WithComponent(ComponentApp)

	compLogger.Info("Test message", map[string]interface{}{
		"key": "value",
	})

	output := buf.String()
	t.Logf("JSON output: %s", output)
	if !strings.Contains(output, `"level"`) {
		t.Error("JSON format should contain level field")
	}
	if !strings.Contains(output, `"component":"app"`) {
		t.Error("JSON format should contain component field")
	}
	if !strings.Contains(output, `"message":"Test message"`) {
		t.Error("JSON format should contain message field")
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf

	logger := New(config)
	compLogger := logger.WithComponent(ComponentApp)

	compLogger.Info("Test message", map[string]interface{}{
		"url":   "https://example.com",
		"count": 42,
	})

	output := buf.String()
	if !strings.Contains(output, "url=https://example.com") {
		t.Error("Fields should be included in output")
	}
	if !strings.Contains(output, "count=42") {
		t.Error("Fields should be included in output")
	}
}

func TestLogger_Timestamp(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf
	config.Timestamp = true

	logger := New(config)
	compLogger := logger.WithComponent(ComponentApp)

	compLogger.Info("Test message")

	output := buf.String()
	if !strings.HasPrefix(output, time.Now().Format("2006-")) {
		t.Errorf("Timestamp should prefix output, got %q", output)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf
	config.ShowCaller = true

	logger := New(config)
	compLogger := logger.WithComponent(ComponentApp)

	compLogger.Info("Test message")

	output := buf.String()
	if !strings.Contains(output, "logger_test.go:") {
		t.Error("Caller information should be included in output")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf

	run := New(config).WithComponent(ComponentTransfer).With(map[string]interface{}{"run": "abc"})
	run.Info("Chunk written", map[string]interface{}{"bytes": 8192})

	output := buf.String()
	if !strings.Contains(output, "bytes=8192 run=abc") {
		t.Errorf("Attached and call fields should be merged in key order, got %q", output)
	}
}

func TestNop(t *testing.T) {
	// Must not panic and must not write anywhere.
	Nop().WithComponent(ComponentApp).Error("discarded")

	var nilLogger *Logger
	nilLogger.WithComponent(ComponentApp).Info("also discarded")
}

func TestLogger_Concurrency(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Output = &buf

	logger := New(config)
	compLogger := logger.WithComponent(ComponentApp)

	// Test concurrent logging
	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			compLogger.Info("Concurrent message", map[string]interface{}{
				"goroutine": i,
			})
			done <- true
		}(i)
	}

	// Wait for all goroutines to complete
	for i := 0; i < 10; i++ {
		<-done
	}

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 10 {
		t.Errorf("Expected 10 log lines, got %d", len(lines))
	}
}

func TestLogger_LevelNames(t *testing.T) {
	expected := map[Level]string{
		TRACE: "TRACE",
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
	}

	for level, expectedName := range expected {
		if levelNames[level] != expectedName {
			t.Errorf("Level %d should have name %s, got %s", level, expectedName, levelNames[level])
		}
	}
}

func TestLogger_ComponentConstants(t *testing.T) {
	expected := map[Component]string{
		ComponentApp:      "app",
		ComponentPlayer:   "player",
		ComponentVariants: "variants",
		ComponentTransfer: "transfer",
		ComponentClient:   "client",
		ComponentScript:   "script",
	}

	for component, expectedValue := range expected {
		if string(component) != expectedValue {
			t.Errorf("Component %s should have value %s, got %s", component, expectedValue, string(component))
		}
	}
}

func TestLogConfig_ToLoggerConfig(t *testing.T) {
	cfg := DefaultLogConfig()
	cfg.Level = "debug"
	cfg.Format = "json"
	cfg.Output = "null"
	cfg.Components = map[string]bool{"client": true}

	lc, err := cfg.ToLoggerConfig()
	if err != nil {
		t.Fatalf("ToLoggerConfig: %v", err)
	}
	if lc.Level != DEBUG || lc.Format != FormatJSON {
		t.Errorf("unexpected level/format: %v/%v", lc.Level, lc.Format)
	}
	if !lc.Components[ComponentClient] || !lc.Components[ComponentApp] {
		t.Errorf("components should merge onto defaults: %v", lc.Components)
	}
}

func TestLogConfig_Validate(t *testing.T) {
	bad := []*LogConfig{
		{Level: "LOUD"},
		{Format: "xml"},
		{Output: "syslog"},
		{Output: "file:"},
	}
	for _, c := range bad {
		if err := c.ValidateConfig(); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
	if err := DefaultLogConfig().ValidateConfig(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLogConfig_ApplyEnv(t *testing.T) {
	t.Setenv("TNADL_LOG_LEVEL", "WARN")
	t.Setenv("TNADL_LOG_COMPONENTS", "transfer, player")

	cfg := DefaultLogConfig()
	cfg.ApplyEnv()
	if cfg.Level != "WARN" {
		t.Errorf("level = %q", cfg.Level)
	}
	if !cfg.Components["transfer"] || !cfg.Components["player"] || cfg.Components["app"] {
		t.Errorf("components = %v", cfg.Components)
	}
}
