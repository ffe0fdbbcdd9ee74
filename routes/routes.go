// File: routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"slotwise/handlers"
)

// RegisterAvailabilityRoutes registers availability resolution and rule
// management endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, h *handlers.AvailabilityHandler) {
	api := r.Group("/api/availability")
	{
		api.POST("/check", h.CheckAvailability)
		api.POST("/rules", h.CreateRule)
	}
}

// RegisterSlotRoutes registers slot lookup and booking endpoints.
func RegisterSlotRoutes(r *gin.Engine, h *handlers.SlotHandler) {
	api := r.Group("/api/slots")
	{
		api.GET("/next", h.GetNextAvailable)
		api.GET("/:id", h.GetSlot)
		api.GET("/:id/history", h.GetSlotHistory)
		api.POST("/:id/book", h.BookSlot)
		api.PATCH("/:id/status", h.UpdateSlotStatus)
	}
}

// RegisterGenerationRoutes registers slot generation endpoints.
func RegisterGenerationRoutes(r *gin.Engine, h *handlers.GenerationHandler) {
	api := r.Group("/api/generation")
	{
		api.POST("/generate", h.Generate)
		api.POST("/regenerate", h.Regenerate)
	}
}
