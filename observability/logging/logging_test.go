package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := install(&buf, "timeflow", "test")
	logger.Info("hello", "op", "CreateStream")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	for _, key := range []string{"timestamp", "severity", "message", "service", "env", "op"} {
		if _, ok := line[key]; !ok {
			t.Fatalf("missing key %q in %v", key, line)
		}
	}
	if line["severity"] != "INFO" {
		t.Fatalf("unexpected severity %v", line["severity"])
	}
}

func TestSetupFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vault.log")
	logger, closer, err := SetupFile("timeflow", "", FileConfig{Path: path})
	if err != nil {
		t.Fatalf("setup file: %v", err)
	}
	logger.Warn("journal failed")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte(`"severity":"WARN"`)) {
		t.Fatalf("unexpected log contents %s", data)
	}
	if _, _, err := SetupFile("timeflow", "", FileConfig{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestHandlerRedactsUnknownKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "timeflow", "")
	logger.Info("generated key",
		"passphrase", "hunter2",
		"privateKey", "0xabc",
		"note", "",
		"op", "Stake",
		"address", "tflow1xyz")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("hunter2")) || bytes.Contains(buf.Bytes(), []byte("0xabc")) {
		t.Fatalf("secret leaked: %s", buf.Bytes())
	}
	for key, want := range map[string]string{
		"passphrase": RedactedValue,
		"privateKey": RedactedValue,
		"note":       "",
		"op":         "Stake",
		"address":    "tflow1xyz",
		"service":    "timeflow",
		"message":    "generated key",
	} {
		if line[key] != want {
			t.Fatalf("%s: got %v want %q", key, line[key], want)
		}
	}
	if _, ok := line["env"]; ok {
		t.Fatalf("empty env should be omitted")
	}
}
