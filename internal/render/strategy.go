package render

import (
	"bytes"
	"context"
	"log"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/textburn/textburn/internal/config"
	"github.com/textburn/textburn/internal/engine"
	"github.com/textburn/textburn/internal/filtergraph"
	"github.com/textburn/textburn/internal/profile"
	"github.com/textburn/textburn/pkg/types"
)

// Strategy is one self-contained rendering attempt with a fixed
// fidelity/robustness trade-off. Each attempt is complete on its own, not
// a continuation of the previous one.
type Strategy interface {
	Name() string
	Run(ctx context.Context, video []byte, annotations []types.Annotation, onProgress types.ProgressFunc) ([]byte, error)
}

// filterBuilder produces the -vf expression for an attempt. Nil means the
// attempt applies no filter pass at all.
type filterBuilder func(annotations []types.Annotation, width, height int, opts filtergraph.Options) string

// encodeStrategy parameterizes the shared encode runner: the four
// strategies differ only in filter construction, output profile, audio
// handling and font use.
type encodeStrategy struct {
	name        string
	manager     *engine.Manager
	opts        filtergraph.Options
	profileName string
	copyAudio   bool
	useFont     bool
	buildFilter filterBuilder
}

// NewStrategies returns the ordered strategy chain, most faithful first:
// full text-with-font, simplified text, geometric placeholder, safe
// re-encode.
func NewStrategies(manager *engine.Manager, cfg *config.Config) []Strategy {
	opts := filtergraph.OptionsFromConfig(cfg.Overlay)
	return []Strategy{
		&encodeStrategy{
			name:        "full-text",
			manager:     manager,
			opts:        opts,
			profileName: "standard",
			copyAudio:   true,
			useFont:     true,
			buildFilter: filtergraph.Build,
		},
		&encodeStrategy{
			name:        "simplified-text",
			manager:     manager,
			opts:        opts,
			profileName: "standard",
			copyAudio:   true,
			buildFilter: filtergraph.BuildSimplified,
		},
		&encodeStrategy{
			name:        "placeholder",
			manager:     manager,
			opts:        opts,
			profileName: "standard",
			copyAudio:   true,
			buildFilter: filtergraph.Placeholder,
		},
		&encodeStrategy{
			name:        "safe-reencode",
			manager:     manager,
			opts:        opts,
			profileName: "compat",
		},
	}
}

func (s *encodeStrategy) Name() string {
	return s.name
}

func (s *encodeStrategy) Run(ctx context.Context, video []byte, annotations []types.Annotation, onProgress types.ProgressFunc) ([]byte, error) {
	fail := func(err error) ([]byte, error) {
		return nil, &engine.StrategyError{Strategy: s.name, Cause: err}
	}

	sess, err := s.manager.Acquire(ctx)
	if err != nil {
		return fail(err)
	}

	// The working namespace holds one job's files at a time.
	release := sess.Lease()
	defer release()
	defer sess.Cleanup()

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if err := sess.WriteInput(video); err != nil {
		return fail(err)
	}

	meta, err := engine.Probe(sess.InputPath())
	if err != nil {
		return fail(err)
	}

	outputKwargs, err := s.outputKwargs(sess.FontFile(), annotations, meta)
	if err != nil {
		return fail(err)
	}

	relay, err := engine.NewRelay(sess.Dir(), meta.Duration, onProgress)
	if err != nil {
		return fail(err)
	}
	defer relay.Close()

	stream := ffmpeg.Input(sess.InputPath()).
		Output(sess.OutputPath(), outputKwargs).
		GlobalArgs("-progress", relay.URL()).
		OverWriteOutput()

	if sess.Verbose() {
		log.Printf("Strategy %s FFmpeg command: %s", s.name, stream.String())
	}

	if err := runStream(ctx, stream); err != nil {
		return fail(err)
	}

	out, err := sess.ReadOutput()
	if err != nil {
		return fail(err)
	}
	if len(out) == 0 {
		return fail(errors.New("encoder produced a zero-length result"))
	}
	return out, nil
}

func (s *encodeStrategy) outputKwargs(fontFile string, annotations []types.Annotation, meta *engine.VideoMetadata) (ffmpeg.KwArgs, error) {
	prof, err := profile.Get(s.profileName)
	if err != nil {
		return nil, err
	}
	kwargs := prof.OutputKwargs(s.copyAudio)

	if s.buildFilter != nil {
		opts := s.opts
		if s.useFont {
			opts.FontFile = fontFile
		} else {
			opts.FontFile = ""
		}
		if vf := s.buildFilter(annotations, meta.Width, meta.Height, opts); vf != filtergraph.Identity {
			kwargs["vf"] = vf
		}
	}
	return kwargs, nil
}

// runStream executes a compiled ffmpeg invocation, capturing stderr for
// error reporting and killing the process when the context is cancelled.
func runStream(ctx context.Context, stream *ffmpeg.Stream) error {
	cmd := stream.Compile()
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start encoder")
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return errors.Wrapf(err, "encoder failed: %s", tailLines(stderr.String(), 4))
		}
		return nil
	}
}

// tailLines keeps the last n non-empty stderr lines, which is where
// ffmpeg puts the actionable part of its error output.
func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			kept = append([]string{line}, kept...)
		}
	}
	return strings.Join(kept, " | ")
}
