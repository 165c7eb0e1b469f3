package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func stubLookPath(t *testing.T, fail bool) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if fail {
			return "", errors.Errorf("%s: executable file not found", name)
		}
		return "/usr/bin/" + name, nil
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestAcquireMemoizesSession(t *testing.T) {
	stubLookPath(t, false)
	m := NewManager(Options{WorkDir: t.TempDir()})
	t.Cleanup(func() { m.Close() })

	first, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	second, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if first != second {
		t.Fatal("Acquire returned a different session on the second call")
	}
}

func TestAcquireReportsInitError(t *testing.T) {
	stubLookPath(t, true)
	m := NewManager(Options{WorkDir: t.TempDir()})

	_, err := m.Acquire(context.Background())
	if err == nil {
		t.Fatal("expected init error")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("error is %T, want *InitError", err)
	}
}

func TestAcquireHonorsCancelledContext(t *testing.T) {
	stubLookPath(t, false)
	m := NewManager(Options{WorkDir: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Acquire(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestSessionWorkingNamespaceRoundTrip(t *testing.T) {
	stubLookPath(t, false)
	m := NewManager(Options{WorkDir: t.TempDir()})
	t.Cleanup(func() { m.Close() })

	sess, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	payload := []byte("not really a video")
	if err := sess.WriteInput(payload); err != nil {
		t.Fatalf("WriteInput: %v", err)
	}
	if err := os.WriteFile(sess.OutputPath(), []byte("rendered"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := sess.ReadOutput()
	if err != nil {
		t.Fatalf("ReadOutput: %v", err)
	}
	if string(out) != "rendered" {
		t.Fatalf("ReadOutput = %q", out)
	}

	sess.Cleanup()
	if _, err := os.Stat(sess.InputPath()); !os.IsNotExist(err) {
		t.Fatal("input file survived Cleanup")
	}
	if _, err := os.Stat(sess.OutputPath()); !os.IsNotExist(err) {
		t.Fatal("output file survived Cleanup")
	}
}

func TestResolveFontBestEffort(t *testing.T) {
	dir := t.TempDir()
	fontPath := filepath.Join(dir, "font.ttf")
	if err := os.WriteFile(fontPath, []byte("ttf"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := resolveFont(Options{FontFile: fontPath}); got != fontPath {
		t.Fatalf("resolveFont = %q, want %q", got, fontPath)
	}
	if got := resolveFont(Options{FontFile: filepath.Join(dir, "missing.ttf")}); got != "" {
		t.Fatalf("resolveFont on missing file = %q, want empty", got)
	}
	// Explicit file wins over search paths.
	if got := resolveFont(Options{FontFile: fontPath, FontSearch: []string{"/nope"}}); got != fontPath {
		t.Fatalf("resolveFont = %q, want %q", got, fontPath)
	}
}
