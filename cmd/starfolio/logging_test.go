package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	log, closeLog, err := setupLogging(false)
	if err != nil {
		t.Fatalf("setupLogging(false): %v", err)
	}
	defer closeLog()

	log.Infow("should go nowhere")
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory when debug=false")
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	t.Chdir(t.TempDir())

	log, closeLog, err := setupLogging(true)
	if err != nil {
		t.Fatalf("setupLogging(true): %v", err)
	}

	log.Infow("test log message", "key", "value")
	closeLog()

	logPath := filepath.Join(logDir, logFileName)
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected log file to contain content")
	}
}
