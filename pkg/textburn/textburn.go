// Package textburn renders text annotations into short videos, degrading
// through progressively more conservative encoding strategies when the
// underlying engine misbehaves.
package textburn

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/textburn/textburn/internal/config"
	"github.com/textburn/textburn/internal/engine"
	"github.com/textburn/textburn/internal/render"
	"github.com/textburn/textburn/pkg/types"
)

// Options configures a Renderer. Zero values fall back to the config file
// and built-in defaults.
type Options struct {
	ConfigFile string
	FontFile   string
	WorkDir    string
	Verbose    bool
}

// Renderer is the public entry point to the overlay pipeline. It owns the
// engine session manager; Close releases the session's working namespace.
type Renderer struct {
	cfg     *config.Config
	manager *engine.Manager
	orch    *render.Orchestrator
}

// New creates a renderer. The engine itself is initialized lazily on the
// first render.
func New(opts *Options) (*Renderer, error) {
	if opts == nil {
		opts = &Options{}
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		cfg.Verbose = true
	}
	if opts.FontFile != "" {
		cfg.Overlay.FontFile = opts.FontFile
	}
	if opts.WorkDir != "" {
		cfg.WorkDir = opts.WorkDir
	}

	manager := engine.NewManager(engine.Options{
		WorkDir:    cfg.WorkDir,
		FontFile:   cfg.Overlay.FontFile,
		FontSearch: cfg.Overlay.FontSearch,
		Verbose:    cfg.Verbose,
	})

	return &Renderer{
		cfg:     cfg,
		manager: manager,
		orch:    render.NewOrchestrator(render.NewStrategies(manager, cfg), cfg.Verbose),
	}, nil
}

// Render burns the annotations into the video and returns the result. The
// input is validated against the configured limits first; findings are
// warnings unless reject mode is on. Progress events arrive on onProgress,
// which may be nil.
func (r *Renderer) Render(ctx context.Context, video []byte, annotations []types.Annotation, onProgress types.ProgressFunc) ([]byte, error) {
	if err := render.ValidateInput(video, r.cfg.Limits); err != nil {
		return nil, err
	}
	return r.orch.AddCharacterOverlays(ctx, video, annotations, onProgress)
}

// RenderFile is the file-path convenience wrapper used by the CLI.
func (r *Renderer) RenderFile(ctx context.Context, inputPath, outputPath string, annotations []types.Annotation, onProgress types.ProgressFunc) error {
	video, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read input video %s", inputPath)
	}

	out, err := r.Render(ctx, video, annotations, onProgress)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return errors.Wrapf(err, "failed to write output video %s", outputPath)
	}
	if r.cfg.Verbose {
		log.Printf("Input file size: %.2f MB", float64(len(video))/1024/1024)
		log.Printf("Output file size: %.2f MB", float64(len(out))/1024/1024)
	}
	return nil
}

// Close tears down the engine session if one was created.
func (r *Renderer) Close() error {
	return r.manager.Close()
}

// ParseAnnotations decodes a JSON annotation list. Empty input means no
// annotations.
func ParseAnnotations(data []byte) ([]types.Annotation, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var annotations []types.Annotation
	if err := json.Unmarshal(data, &annotations); err != nil {
		return nil, errors.Wrap(err, "failed to parse annotations JSON")
	}
	return annotations, nil
}

// Diagnose exercises the engine's version/format/codec enumeration.
func Diagnose(verbose bool) error {
	return engine.Diagnose(verbose)
}
