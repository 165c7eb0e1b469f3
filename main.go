package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/textburn/textburn/internal/config"
	"github.com/textburn/textburn/internal/engine"
	"github.com/textburn/textburn/internal/render"
	"github.com/textburn/textburn/internal/server"
	"github.com/textburn/textburn/pkg/textburn"
	"github.com/textburn/textburn/pkg/types"
)

var (
	rootCmd = &cobra.Command{
		Use:   "textburn",
		Short: "Burn text annotations into short videos",
		Long: `textburn renders positioned text annotations into a video and produces an
output with the annotations burned in. When the encoder misbehaves, the
pipeline degrades through progressively more conservative strategies
instead of failing outright.

Examples:
  # Render annotations from a JSON file into a video
  textburn render -i input.mp4 -o output.mp4 -a annotations.json

  # Start the HTTP render API
  textburn serve --bind 127.0.0.1:8470`,
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render annotations into a video file",
		Long: `Render a JSON annotation list into a video. The annotations file is an
array of objects: {"id", "text", "x", "y", "scale", "rotation"} with x/y as
percentages of the video content area.

Example:
  textburn render -i input.mp4 -o output.mp4 -a annotations.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, _ := cmd.Flags().GetString("input")
			outputPath, _ := cmd.Flags().GetString("output")
			annotationsPath, _ := cmd.Flags().GetString("annotations")
			configFile, _ := cmd.Flags().GetString("config")
			fontFile, _ := cmd.Flags().GetString("font")
			verbose, _ := cmd.Flags().GetBool("verbose")

			if inputPath == "" {
				return fmt.Errorf("input path is required")
			}
			if outputPath == "" {
				outputPath = types.OutputFilename
			}

			var annotations []types.Annotation
			if annotationsPath != "" {
				data, err := os.ReadFile(annotationsPath)
				if err != nil {
					return fmt.Errorf("failed to read annotations file: %v", err)
				}
				annotations, err = textburn.ParseAnnotations(data)
				if err != nil {
					return err
				}
			}

			renderer, err := textburn.New(&textburn.Options{
				ConfigFile: configFile,
				FontFile:   fontFile,
				Verbose:    verbose,
			})
			if err != nil {
				return err
			}
			defer renderer.Close()

			onProgress := func(p types.Progress) {
				fmt.Printf("\rRendering: %3.0f%%", p.Fraction*100)
			}
			err = renderer.RenderFile(cmd.Context(), inputPath, outputPath, annotations, onProgress)
			fmt.Println()
			if err != nil {
				return err
			}

			fmt.Printf("Rendered %d annotation(s) into %s\n", len(annotations), outputPath)
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP render API",
		Long: `Start an HTTP server exposing the render pipeline.

POST /api/render accepts a multipart upload with a "video" file and an
optional "annotations" JSON field, and responds with the rendered video.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			bind, _ := cmd.Flags().GetString("bind")
			verbose, _ := cmd.Flags().GetBool("verbose")

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if verbose {
				cfg.Verbose = true
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			manager := engine.NewManager(engine.Options{
				WorkDir:    cfg.WorkDir,
				FontFile:   cfg.Overlay.FontFile,
				FontSearch: cfg.Overlay.FontSearch,
				Verbose:    cfg.Verbose,
			})
			defer manager.Close()

			orch := render.NewOrchestrator(render.NewStrategies(manager, cfg), cfg.Verbose)
			app := server.New(cfg, orch)

			log.Printf("textburn API listening on %s", cfg.Server.Bind)
			return app.Listen(cfg.Server.Bind)
		},
	}

	diagnoseCmd = &cobra.Command{
		Use:   "diagnose",
		Short: "Check that the encoding engine is operational",
		Long: `Run the engine's version, format and codec enumeration as an operability
check. Exits non-zero when the engine is unusable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if err := textburn.Diagnose(verbose); err != nil {
				return err
			}
			fmt.Println("Engine OK")
			return nil
		},
	}
)

func init() {
	// Render command flags
	renderCmd.Flags().StringP("input", "i", "", "Input video file")
	renderCmd.Flags().StringP("output", "o", "", "Output video path (default "+types.OutputFilename+")")
	renderCmd.Flags().StringP("annotations", "a", "", "Annotations JSON file")
	renderCmd.Flags().String("config", "", "Config file (TOML)")
	renderCmd.Flags().String("font", "", "Font file for the full-text strategy")
	renderCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	renderCmd.MarkFlagRequired("input")

	// Serve command flags
	serveCmd.Flags().String("bind", "", "Listen address (overrides config)")
	serveCmd.Flags().String("config", "", "Config file (TOML)")
	serveCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Diagnose command flags
	diagnoseCmd.Flags().BoolP("verbose", "v", false, "Log engine version and capability banners")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(diagnoseCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
