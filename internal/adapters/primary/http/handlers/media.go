package handlers

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var modelContentTypes = map[string]string{
	".glb":  "model/gltf-binary",
	".gltf": "model/gltf+json",
	".obj":  "model/obj",
	".fbx":  "application/octet-stream",
}

func (h *Handler) ServeMedia(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	rc, err := h.storage.Open(c.Request.Context(), key)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	defer rc.Close()

	ext := strings.ToLower(path.Ext(key))
	contentType, ok := modelContentTypes[ext]
	if !ok {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
	if err := c.Errors.Last(); err != nil {
		log.WithError(err).WithField("key", key).Warn("stream media failed")
	}
}
