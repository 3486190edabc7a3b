package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/legaltext/finetuner/pkg/types"
)

// APIVersion is the reported service version
const APIVersion = "1.0.0"

// HealthHandler reports service and runner health
type HealthHandler struct {
	*APIHandler
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(api *APIHandler) *HealthHandler {
	return &HealthHandler{APIHandler: api}
}

// Check reports API health plus the reachability of the model runner. The
// API stays healthy when the runner is down; inference and training will
// degrade but auth and data management keep working.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	runnerStatus := "unreachable"
	if h.runner != nil {
		if resp, err := h.runner.Health(c.Context()); err == nil {
			runnerStatus = resp.Status
		}
	}
	return c.JSON(types.HealthResponse{
		Status:  "healthy",
		Version: APIVersion,
		Runner:  runnerStatus,
	})
}
