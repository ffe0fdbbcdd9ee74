// File: handlers/generation.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"slotwise/cron"
	"slotwise/models"
	"slotwise/utils"
)

// GenerationHandler enqueues slot generation jobs; the actual expansion
// runs on the background worker.
type GenerationHandler struct {
	Queue *asynq.Client
}

func NewGenerationHandler(queue *asynq.Client) *GenerationHandler {
	return &GenerationHandler{Queue: queue}
}

func (h *GenerationHandler) enqueue(c *gin.Context, taskType string) {
	var req models.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid generation request", err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid generation request", "startDate must be YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", req.EndDate); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid generation request", "endDate must be YYYY-MM-DD")
		return
	}

	task, err := cron.NewGenerationTask(taskType, req)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to build task", err.Error())
		return
	}
	info, err := h.Queue.Enqueue(task)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to enqueue generation", err.Error())
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"taskId": info.ID, "queue": info.Queue})
}

// Generate enqueues generation for a resource and date range.
func (h *GenerationHandler) Generate(c *gin.Context) {
	h.enqueue(c, cron.TypeGenerateSlots)
}

// Regenerate enqueues delete-and-recreate for a resource and date range.
func (h *GenerationHandler) Regenerate(c *gin.Context) {
	h.enqueue(c, cron.TypeRegenerateSlots)
}
