package engine

import (
	"bytes"
	"log"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Diagnose exercises the engine's version, format and codec enumeration as
// an operability check. It returns nothing beyond success or failure; with
// verbose on, the version banners are logged.
func Diagnose(verbose bool) error {
	checks := []struct {
		name string
		args []string
	}{
		{"ffmpeg version", []string{"ffmpeg", "-version"}},
		{"ffprobe version", []string{"ffprobe", "-version"}},
		{"format enumeration", []string{"ffmpeg", "-hide_banner", "-formats"}},
		{"codec enumeration", []string{"ffmpeg", "-hide_banner", "-codecs"}},
	}

	for _, check := range checks {
		out, err := runCommand(check.args)
		if err != nil {
			return errors.Wrapf(err, "%s check failed", check.name)
		}
		if verbose {
			log.Printf("Diagnose %s: %s", check.name, firstLine(out))
		}
	}
	return nil
}

func runCommand(args []string) (string, error) {
	cmd := exec.Command(args[0], args[1:]...)
	var out bytes.Buffer
	var errout bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errout

	if err := cmd.Run(); err != nil {
		return errout.String(), err
	}
	return out.String(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
