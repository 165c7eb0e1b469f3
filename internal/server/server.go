package server

import (
	"io"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/textburn/textburn/internal/config"
	"github.com/textburn/textburn/internal/render"
	"github.com/textburn/textburn/pkg/textburn"
	"github.com/textburn/textburn/pkg/types"
)

// New builds the HTTP API around an orchestrator. Render requests are
// serialized with a mutex: the engine's working namespace supports one
// job at a time.
func New(cfg *config.Config, orch *render.Orchestrator) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Server.MaxUploadMiB * 1024 * 1024,
	})

	h := &handler{cfg: cfg, orch: orch}
	app.Get("/healthz", h.health)
	app.Post("/api/render", h.render)
	return app
}

type handler struct {
	mu   sync.Mutex
	cfg  *config.Config
	orch *render.Orchestrator
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// render accepts a multipart upload: a "video" file and an optional
// "annotations" field carrying a JSON annotation list. The response body
// is the rendered video.
func (h *handler) render(c *fiber.Ctx) error {
	jobID := uuid.NewString()

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing video file in form field 'video'",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "could not open uploaded video",
		})
	}
	video, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "could not read uploaded video",
		})
	}

	annotations, err := textburn.ParseAnnotations([]byte(c.FormValue("annotations")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("Render job %s: %d input bytes, %d annotations", jobID, len(video), len(annotations))

	if err := render.ValidateInput(video, h.cfg.Limits); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.mu.Lock()
	out, err := h.orch.AddCharacterOverlays(c.UserContext(), video, annotations, h.progressLogger(jobID))
	h.mu.Unlock()
	if err != nil {
		log.Printf("Render job %s failed: %v", jobID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "video processing failed; check server logs for details",
		})
	}

	log.Printf("Render job %s complete: %d output bytes", jobID, len(out))
	c.Set(fiber.HeaderContentType, types.OutputMediaType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+types.OutputFilename+`"`)
	return c.Send(out)
}

// progressLogger samples progress events into the job log at coarse steps
// so a stuck encode is visible without flooding the log.
func (h *handler) progressLogger(jobID string) types.ProgressFunc {
	if !h.cfg.Verbose {
		return nil
	}
	lastDecile := -1
	return func(p types.Progress) {
		decile := int(p.Fraction * 10)
		if decile == lastDecile {
			return
		}
		lastDecile = decile
		log.Printf("Render job %s: %3.0f%% (t=%.1fs)", jobID, p.Fraction*100, p.Time)
	}
}
