package wiki

import (
	"errors"

	"search-sync/core/document"
	"search-sync/core/job"
	"search-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for index synchronization jobs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the job routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/index/jobs")
	group.Post("/", h.HandleSubmit)
	group.Get("/:id", h.HandleStatus)
	group.Delete("/:id", h.HandleCancel)
}

// SubmitRequest is the body of a job submission.
type SubmitRequest struct {
	// Scope restricts the job. Omitted means every document of every wiki.
	Scope *document.Scope `json:"scope,omitempty"`
	// Overwrite requests a full rebuild of the scope.
	Overwrite bool `json:"overwrite"`
}

// HandleSubmit queues a synchronization job.
// @Summary Submit Index Job
// @Description Queue an incremental synchronization (or a full rebuild with overwrite) of the search index.
// @Tags index
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Job scope"
// @Success 202 {object} map[string]string "Job id"
// @Failure 400 {object} map[string]string "Malformed request"
// @Failure 503 {object} map[string]string "Shutting down"
// @Router /index/jobs [post]
func (h *Handler) HandleSubmit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SubmitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	id, err := h.service.Submit(req.Scope, req.Overwrite)
	if errors.Is(err, job.ErrSchedulerClosed) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Index job submitted",
		zap.String("job_id", id),
		zap.String("scope", req.Scope.String()),
		zap.Bool("overwrite", req.Overwrite),
	)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":     id,
		"status": "/index/jobs/" + id,
	})
}

// HandleStatus returns the status of a job.
// @Summary Get Index Job
// @Description Get the state, progress and summary of a synchronization job.
// @Tags index
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} job.Status "Job status"
// @Failure 404 {object} map[string]string "Unknown job"
// @Router /index/jobs/{id} [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, err := h.service.Status(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(status)
}

// HandleCancel cancels a queued or running job.
// @Summary Cancel Index Job
// @Tags index
// @Param id path string true "Job id"
// @Success 202 {object} map[string]string "Cancellation requested"
// @Failure 404 {object} map[string]string "Unknown job"
// @Router /index/jobs/{id} [delete]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Cancel(id); err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Index job cancellation requested", zap.String("job_id", id))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, job.ErrUnknownJob) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Index job request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
