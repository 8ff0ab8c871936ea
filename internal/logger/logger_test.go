package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLogFilePathExplicitDir(t *testing.T) {
	tmpDir := t.TempDir()

	got, err := resolveLogFilePath(Options{Dir: tmpDir, Filename: "app.log"})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	if got != filepath.Join(tmpDir, "app.log") {
		t.Fatalf("log path want %s got %s", filepath.Join(tmpDir, "app.log"), got)
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("log file should be created writable: %v", err)
	}
}

func TestResolveLogFilePathDefaultFilename(t *testing.T) {
	tmpDir := t.TempDir()

	got, err := resolveLogFilePath(Options{Dir: tmpDir})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("filename want %s got %s", defaultLogFilename, filepath.Base(got))
	}
}

func TestNormalizePositiveInt(t *testing.T) {
	if got := normalizePositiveInt(0, 7); got != 7 {
		t.Fatalf("zero should fall back, got %d", got)
	}
	if got := normalizePositiveInt(-1, 7); got != 7 {
		t.Fatalf("negative should fall back, got %d", got)
	}
	if got := normalizePositiveInt(3, 7); got != 3 {
		t.Fatalf("positive should be kept, got %d", got)
	}
}

func TestNewDebugLoggerWritesConsole(t *testing.T) {
	logger := New("debug", Options{})
	if logger == nil {
		t.Fatalf("debug logger should not be nil")
	}
	logger.Sugar().Debugw("logger_debug_probe", "key", "value")
}

func TestSugaredFallbackWithoutInit(t *testing.T) {
	old := L
	L = nil
	t.Cleanup(func() { L = old })

	if S() == nil {
		t.Fatalf("fallback sugared logger should not be nil")
	}
	S().Infow("logger_fallback_probe")
}
