package engine

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Fixed working-namespace filenames shared by every strategy. The session
// runs one job at a time; concurrent jobs must hold the lease.
const (
	inputName  = "input.mp4"
	outputName = "output.mp4"
)

// Swapped out in tests.
var lookPath = exec.LookPath

// Options configures session initialization.
type Options struct {
	// WorkDir is the parent directory for the session's working
	// namespace. Empty means the system temp directory.
	WorkDir string

	// FontFile is an explicit font for the full-text strategy. When empty,
	// FontSearch paths are tried in order. A missing font is not an error.
	FontFile   string
	FontSearch []string

	Verbose bool
}

// Manager owns the lazily-initialized session handle. Acquire is memoized:
// concurrent and repeated calls observe a single initialization and share
// the same session.
type Manager struct {
	mu   sync.Mutex
	opts Options
	sess *Session
}

// NewManager creates a session manager. No engine resources are touched
// until the first Acquire.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Acquire returns the shared session, initializing it on first use. A
// failed initialization is reported as *InitError and may be retried by a
// later call.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess != nil {
		return m.sess, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := newSession(m.opts)
	if err != nil {
		return nil, &InitError{Cause: err}
	}
	m.sess = sess
	return sess, nil
}

// Close tears down the session if one was initialized.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return nil
	}
	err := m.sess.close()
	m.sess = nil
	return err
}

// Session is a handle to the encoding engine and its working namespace.
type Session struct {
	mu       sync.Mutex
	dir      string
	fontFile string
	verbose  bool
}

func newSession(opts Options) (*Session, error) {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := lookPath(bin); err != nil {
			return nil, errors.Wrapf(err, "%s not found in PATH", bin)
		}
	}

	dir, err := os.MkdirTemp(opts.WorkDir, "textburn_session_")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create working namespace")
	}

	sess := &Session{
		dir:      dir,
		fontFile: resolveFont(opts),
		verbose:  opts.Verbose,
	}
	if opts.Verbose {
		log.Printf("Engine session initialized: dir=%s font=%q", dir, sess.fontFile)
	}
	return sess, nil
}

// resolveFont finds a usable font file, best-effort. Absence does not
// abort anything; the full-text strategy falls back to the engine's
// default font.
func resolveFont(opts Options) string {
	candidates := opts.FontSearch
	if opts.FontFile != "" {
		candidates = append([]string{opts.FontFile}, candidates...)
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	if opts.FontFile != "" && opts.Verbose {
		log.Printf("Warning: configured font %s not found, using engine default", opts.FontFile)
	}
	return ""
}

// Lease takes the single-job lock and returns the release function. The
// working namespace filenames are shared mutable state; every render job
// must hold the lease for its full duration.
func (s *Session) Lease() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Dir returns the working namespace directory.
func (s *Session) Dir() string {
	return s.dir
}

// InputPath returns the fixed input filename inside the namespace.
func (s *Session) InputPath() string {
	return filepath.Join(s.dir, inputName)
}

// OutputPath returns the fixed output filename inside the namespace.
func (s *Session) OutputPath() string {
	return filepath.Join(s.dir, outputName)
}

// FontFile returns the resolved supplementary font, or "" when none was
// found.
func (s *Session) FontFile() string {
	return s.fontFile
}

// Verbose reports whether verbose command logging is on.
func (s *Session) Verbose() bool {
	return s.verbose
}

// WriteInput stores the job's source bytes under the fixed input name.
func (s *Session) WriteInput(video []byte) error {
	if err := os.WriteFile(s.InputPath(), video, 0644); err != nil {
		return errors.Wrap(err, "failed to write input to working namespace")
	}
	return nil
}

// ReadOutput reads back the rendered bytes from the fixed output name.
func (s *Session) ReadOutput() ([]byte, error) {
	data, err := os.ReadFile(s.OutputPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read output from working namespace")
	}
	return data, nil
}

// Cleanup removes the fixed input/output files. It runs on every exit
// path, success or failure, so state never leaks between jobs. Removal
// errors are ignored; the files are recreated by the next job anyway.
func (s *Session) Cleanup() {
	os.Remove(s.InputPath())
	os.Remove(s.OutputPath())
}

func (s *Session) close() error {
	return os.RemoveAll(s.dir)
}
