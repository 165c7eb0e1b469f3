package engine

import (
	"bufio"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/textburn/textburn/pkg/types"
)

// Relay forwards the engine's native progress stream to a caller-supplied
// callback, normalized to a 0..1 fraction. It listens on a unix socket
// that ffmpeg writes key/value progress records to (-progress). Delivery
// is at-most-once per engine event; nothing is buffered or replayed.
type Relay struct {
	listener net.Listener
	sockPath string
}

// NewRelay starts listening for progress events inside dir. totalSeconds
// is the source duration used to derive the completion fraction; the
// callback may be nil, in which case events are drained and dropped.
func NewRelay(dir string, totalSeconds float64, fn types.ProgressFunc) (*Relay, error) {
	sockPath := filepath.Join(dir, "progress.sock")
	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to listen for progress events")
	}

	r := &Relay{listener: listener, sockPath: sockPath}
	go r.serve(totalSeconds, fn)
	return r, nil
}

// URL returns the -progress argument for the encoder invocation.
func (r *Relay) URL() string {
	return "unix://" + r.sockPath
}

// Close stops the listener. Safe to call while an encode is still writing;
// the serving goroutine drains and exits.
func (r *Relay) Close() {
	r.listener.Close()
}

func (r *Relay) serve(totalSeconds float64, fn types.ProgressFunc) {
	conn, err := r.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		seconds, ok := parseProgressLine(scanner.Text())
		if !ok || fn == nil {
			continue
		}
		fn(normalizeProgress(seconds, totalSeconds))
	}
}

// parseProgressLine extracts the elapsed media time in seconds from one
// key=value record of ffmpeg's progress stream. Despite the name,
// out_time_ms carries microseconds; out_time_us is identical where
// present.
func parseProgressLine(line string) (float64, bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return 0, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return float64(us) / 1e6, true
	}
	return 0, false
}

// normalizeProgress converts elapsed seconds into a Progress event. The
// engine can report times outside the source duration (padding, rounding);
// the fraction is always within [0, 1].
func normalizeProgress(seconds, totalSeconds float64) types.Progress {
	if seconds < 0 {
		seconds = 0
	}
	fraction := 0.0
	if totalSeconds > 0 {
		fraction = seconds / totalSeconds
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return types.Progress{Fraction: fraction, Time: seconds}
}
