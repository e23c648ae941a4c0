package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("nonexistent.yaml")
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.Console() {
		t.Error("console output should be enabled by default")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
	if config.FilePath != "logs/floorforge.log" {
		t.Errorf("Default FilePath = %q", config.FilePath)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floorforge.yaml")
	yamlContent := `logging:
  level: DEBUG
  console_enabled: false
  console_format: json
  file_enabled: true
  file_path: test.log
  file_max_size_mb: 20
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "DEBUG" {
		t.Errorf("Level = %q, want %q", config.Level, "DEBUG")
	}
	if config.Console() {
		t.Error("console_enabled: false should disable console output")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled || config.FilePath != "test.log" {
		t.Errorf("file settings = %v %q", config.FileEnabled, config.FilePath)
	}
	if config.FileMaxSizeMB != 20 {
		t.Errorf("FileMaxSizeMB = %d, want 20", config.FileMaxSizeMB)
	}
	if config.FileMaxBackups != 5 {
		t.Errorf("unset FileMaxBackups should keep default, got %d", config.FileMaxBackups)
	}
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want ERROR", config.Level)
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want json", config.ConsoleFormat)
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q", config.FilePath)
	}
}

func TestNewTextConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(DefaultConfig(), &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("floor generated", "rooms", 12)
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "floor generated") || !strings.Contains(out, "rooms=12") {
		t.Errorf("missing INFO record: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("DEBUG record written at INFO level: %s", out)
	}
}

func TestNewJSONConsole(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConsoleFormat = "json"

	var buf bytes.Buffer
	l, err := New(cfg, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("JSON test", "field1", "value1", "field2", 42)

	out := buf.String()
	for _, want := range []string{`"msg":"JSON test"`, `"field1":"value1"`, `"field2":42`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestNewWithFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileEnabled = true
	cfg.FilePath = filepath.Join(t.TempDir(), "gen.log")

	var buf bytes.Buffer
	l, err := New(cfg, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info("both outputs")

	if !strings.Contains(buf.String(), "both outputs") {
		t.Error("console handler did not receive record")
	}
	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "both outputs") {
		t.Errorf("file handler did not receive record: %s", data)
	}

	cfg.FilePath = ""
	if _, err := New(cfg, &buf); err == nil {
		t.Error("expected error for file output without a path")
	}
}

func TestAlwaysBypassesLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "ERROR"

	var buf bytes.Buffer
	l, err := New(cfg, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	SetLogger(l)
	t.Cleanup(func() { SetLogger(nil) })

	Debug("Debug message")
	Info("Info message")
	Warning("Warning")
	Error("Error message")
	Always("Always message")

	output := buf.String()
	for _, hidden := range []string{"Debug message", "Info message", "Warning"} {
		if strings.Contains(output, hidden) {
			t.Errorf("%q appeared when level is ERROR", hidden)
		}
	}
	if !strings.Contains(output, "Error message") {
		t.Error("ERROR message missing from output")
	}
	if !strings.Contains(output, "level=ALWAYS") {
		t.Errorf("ALWAYS level not formatted correctly: %s", output)
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	handler1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelError})
	l := slog.New(newMultiHandler(handler1, handler2)).With("attempt", 3)

	l.Info("Multi-handler test", "field", "value")

	if !strings.Contains(buf1.String(), "field=value") || !strings.Contains(buf1.String(), "attempt=3") {
		t.Errorf("first handler output = %s", buf1.String())
	}
	if buf2.Len() != 0 {
		t.Errorf("ERROR handler should skip INFO records, got %s", buf2.String())
	}
}

func TestLoggerBeforeInitialize(t *testing.T) {
	SetLogger(nil)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("logging without a logger panicked: %v", r)
		}
	}()

	Debug("debug")
	Info("info")
	Infof("info %d", 1)
	Warning("warning")
	Error("error")
	Always("always")
	if Logger() == nil {
		t.Error("Logger() should never return nil")
	}
}
