package render

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/textburn/textburn/internal/config"
	"github.com/textburn/textburn/internal/engine"
)

// ValidateInput checks the source bytes against the configured limits.
// Findings are warnings: they are logged and the render proceeds, unless
// reject mode is configured, in which case the first finding fails the
// job before any strategy runs.
func ValidateInput(video []byte, limits config.Limits) error {
	meta, probeErr := probeBytes(video)
	warnings := EvaluateInput(meta, probeErr, limits)

	for _, w := range warnings {
		log.Printf("Warning: %s", w)
	}
	if limits.Reject && len(warnings) > 0 {
		return errors.Errorf("input rejected: %s", warnings[0])
	}
	return nil
}

// EvaluateInput derives validation warnings from probe results. Split out
// from ValidateInput so the policy is testable without an engine.
func EvaluateInput(meta *engine.VideoMetadata, probeErr error, limits config.Limits) []string {
	var warnings []string

	if probeErr != nil {
		warnings = append(warnings,
			fmt.Sprintf("input does not look like a decodable video: %v", probeErr))
		return warnings
	}
	if meta.Duration > limits.MaxDurationSeconds {
		warnings = append(warnings,
			fmt.Sprintf("input duration %.1fs exceeds the %.0fs ceiling", meta.Duration, limits.MaxDurationSeconds))
	}
	if !meta.HasVideo {
		warnings = append(warnings, "input has no video stream")
	}
	return warnings
}

// probeBytes inspects raw bytes through a throwaway temp file; the shared
// working namespace is left to the strategies.
func probeBytes(video []byte) (*engine.VideoMetadata, error) {
	f, err := os.CreateTemp("", "textburn_probe_*.mp4")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create probe file")
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(video); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to write probe file")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close probe file")
	}

	return engine.Probe(f.Name())
}
