package handlers

import (
	"net/http"

	"model-asset-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "OK", Message: "AR Backend is running"})
}

// Ready reports whether the record store answers.
func (h *Handler) Ready(c *gin.Context) {
	if err := h.assetSvc.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
