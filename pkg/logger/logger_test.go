package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		envLevel string
		want     LogLevel
	}{
		{"Debug level", "DEBUG", DEBUG},
		{"Info level", "INFO", INFO},
		{"Warn level", "WARN", WARN},
		{"Error level", "ERROR", ERROR},
		{"Empty defaults to Info", "", INFO},
		{"Invalid defaults to Info", "INVALID", INFO},
		{"Case insensitive", "debug", DEBUG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("LOG_LEVEL", tt.envLevel)
			defer os.Unsetenv("LOG_LEVEL")

			if got := getLogLevel(); got != tt.want {
				t.Errorf("getLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	started := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got, want := FileName(started), "log_2024-03-09_14-05-07.txt"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name      string
		setLevel  LogLevel
		logFunc   func(string, string, ...interface{})
		shouldLog bool
		wantLevel string
	}{
		{"Debug logs when Debug", DEBUG, Debug, true, "debug"},
		{"Debug doesn't log when Info", INFO, Debug, false, ""},
		{"Info logs when Info", INFO, Info, true, "info"},
		{"Info doesn't log when Error", ERROR, Info, false, ""},
		{"Warn logs when Warn", WARN, Warn, true, "warn"},
		{"Error always logs", ERROR, Error, true, "error"},
		{"Fatal logs without exiting", ERROR, Fatal, true, "fatal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			restore := SetOutput(&buf)
			defer restore()

			previous := currentLevel
			currentLevel = tt.setLevel
			defer func() { currentLevel = previous }()

			tt.logFunc("TEST", "hello %s", "world")

			output := strings.TrimSpace(buf.String())
			if (output != "") != tt.shouldLog {
				t.Fatalf("Expected log output: %v, got output: %q", tt.shouldLog, output)
			}
			if !tt.shouldLog {
				return
			}

			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(output), &entry); err != nil {
				t.Fatalf("log line is not JSON: %v", err)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry["level"], tt.wantLevel)
			}
			if entry["namespace"] != "TEST" {
				t.Errorf("namespace = %v, want TEST", entry["namespace"])
			}
			if entry["message"] != "hello world" {
				t.Errorf("message = %v, want %q", entry["message"], "hello world")
			}
			if _, ok := entry["time"]; !ok {
				t.Error("expected a time field")
			}
		})
	}
}

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	restore := SetOutput(&bytes.Buffer{})
	defer restore()

	path, err := Init(dir, started, false)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Close()

	if filepath.Base(path) != "log_2024-01-02_03-04-05.txt" {
		t.Errorf("unexpected log path %s", path)
	}

	Info("TEST", "namespaced entry")
	log.Info().Msg("global entry")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "namespaced entry") {
		t.Errorf("log file missing namespaced entry: %s", content)
	}
	if !strings.Contains(content, "global entry") {
		t.Errorf("log file missing global logger entry: %s", content)
	}
}
