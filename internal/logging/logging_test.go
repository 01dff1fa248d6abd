package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLBeforeInitIsSilent(t *testing.T) {
	globalLogger = nil
	L().Info("goes nowhere")
	if err := Sync(); err != nil {
		t.Errorf("Sync() on unset logger: %v", err)
	}
}

func TestInitWritesJSONToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	if err := Init(Config{Level: "debug", Format: "json", OutputPath: out}); err != nil {
		t.Fatal(err)
	}
	defer func() { globalLogger = nil }()

	L().Info("saved", Node(7), Version(3), Path("/tmp/x.md"))
	Sync()

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	line := string(raw)
	for _, fragment := range []string{`"msg":"saved"`, `"node":7`, `"version":3`, `"path":"/tmp/x.md"`} {
		if !strings.Contains(line, fragment) {
			t.Errorf("log line %q lacks %s", line, fragment)
		}
	}
}

func TestSetLevelFilters(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	if err := Init(Config{Level: "info", Format: "json", OutputPath: out}); err != nil {
		t.Fatal(err)
	}
	defer func() { globalLogger = nil }()

	SetLevel("error")
	L().Warn("suppressed")
	SetLevel("not-a-level")
	L().Warn("still suppressed")
	Sync()

	raw, _ := os.ReadFile(out)
	if len(raw) != 0 {
		t.Errorf("expected no output, got %q", raw)
	}
}
