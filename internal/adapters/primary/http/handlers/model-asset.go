package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"model-asset-service/internal/adapters/primary/http/dto"
	"model-asset-service/internal/core/domain"
	"model-asset-service/internal/core/ports/output"
	"model-asset-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ListModelAssets returns a bare JSON array, newest first. limit and offset
// are optional; without them every record is returned.
func (h *Handler) ListModelAssets(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		mapDomainError(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		mapDomainError(c, err)
		return
	}

	assets, err := h.assetSvc.List(c.Request.Context(), ports.ListFilter{Limit: limit, Offset: offset})
	if err != nil {
		log.WithError(err).Error("list model assets failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelAssetResponses(assets, h.fileURL(c)))
}

func (h *Handler) GetModelAsset(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	asset, err := h.assetSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelAssetResponse(asset, h.fileURL(c)))
}

func (h *Handler) CreateModelAsset(c *gin.Context) {
	form, err := parseAssetForm(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	defer form.close()

	modelFile, _, err := form.file("model_file")
	if err != nil {
		mapDomainError(c, err)
		return
	}
	thumbnail, _, err := form.file("thumbnail")
	if err != nil {
		mapDomainError(c, err)
		return
	}

	asset, err := h.assetSvc.Create(c.Request.Context(), services.CreateModelAssetInput{
		Name:        form.value("name"),
		Description: form.value("description"),
		ModelFile:   modelFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		logWriteError(err, "create model asset failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelAssetResponse(asset, h.fileURL(c)))
}

// UpdateModelAsset serves PUT (full) and PATCH (partial).
func (h *Handler) UpdateModelAsset(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	form, err := parseAssetForm(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	defer form.close()

	modelFile, modelCleared, err := form.file("model_file")
	if err != nil {
		mapDomainError(c, err)
		return
	}
	if modelCleared {
		// Submitted but empty: let validation report the missing file.
		modelFile = &domain.Upload{}
	}
	thumbnail, thumbCleared, err := form.file("thumbnail")
	if err != nil {
		mapDomainError(c, err)
		return
	}

	asset, err := h.assetSvc.Update(c.Request.Context(), id, services.UpdateModelAssetInput{
		Partial:        c.Request.Method == http.MethodPatch,
		Name:           form.value("name"),
		Description:    form.value("description"),
		ModelFile:      modelFile,
		Thumbnail:      thumbnail,
		ClearThumbnail: thumbCleared,
	})
	if err != nil {
		logWriteError(err, "update model asset failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelAssetResponse(asset, h.fileURL(c)))
}

func (h *Handler) DeleteModelAsset(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	if err := h.assetSvc.Delete(c.Request.Context(), id); err != nil {
		logWriteError(err, "delete model asset failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// fileURL makes relative storage URLs absolute using the request's host.
func (h *Handler) fileURL(c *gin.Context) func(key string) string {
	return func(key string) string {
		u := h.storage.URL(key)
		if !strings.HasPrefix(u, "/") {
			return u
		}
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		return scheme + "://" + c.Request.Host + u
	}
}

// parseID maps anything that is not a positive integer to not found,
// the same answer an unknown id gets.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrModelAssetNotFound
	}
	return id, nil
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errInvalidQuery, key)
	}
	return n, nil
}

// logWriteError keeps client mistakes out of the error log.
func logWriteError(err error, msg string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		log.WithField("fields", verr.Fields).Debug(msg)
	case errors.Is(err, domain.ErrModelAssetNotFound):
		log.WithError(err).Debug(msg)
	default:
		log.WithError(err).Error(msg)
	}
}
