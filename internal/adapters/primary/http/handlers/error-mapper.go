package handlers

import (
	"errors"
	"net/http"

	"model-asset-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

var (
	errMalformedForm   = errors.New("malformed request body")
	errRequestTooLarge = errors.New("request body too large")
	errInvalidQuery    = errors.New("invalid query parameter")
)

func mapDomainError(c *gin.Context, err error) {
	var verr *domain.ValidationError

	switch {
	// Field-level validation
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)

	// Not found errors
	case errors.Is(err, domain.ErrModelAssetNotFound),
		errors.Is(err, domain.ErrBlobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request
	case errors.Is(err, errMalformedForm),
		errors.Is(err, errInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, errRequestTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrUnsupportedMediaType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
