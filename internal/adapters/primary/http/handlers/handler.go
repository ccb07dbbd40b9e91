package handlers

import (
	"strings"

	"model-asset-service/internal/core/ports/output"
	"model-asset-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	assetSvc *services.ModelAssetService
	storage  ports.BlobStorage
}

func New(assetSvc *services.ModelAssetService, storage ports.BlobStorage) *Handler {
	return &Handler{
		assetSvc: assetSvc,
		storage:  storage,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Model Assets
	r.GET("/models/", h.ListModelAssets)
	r.POST("/models/", h.CreateModelAsset)
	r.GET("/models/:id/", h.GetModelAsset)
	r.PUT("/models/:id/", h.UpdateModelAsset)
	r.PATCH("/models/:id/", h.UpdateModelAsset)
	r.DELETE("/models/:id/", h.DeleteModelAsset)

	// Health
	r.GET("/health/", h.Health)
}

// RegisterMediaRoutes serves stored blobs under prefix, e.g. "/media/".
func (h *Handler) RegisterMediaRoutes(r gin.IRoutes, prefix string) {
	r.GET(strings.TrimSuffix(prefix, "/")+"/*key", h.ServeMedia)
}
