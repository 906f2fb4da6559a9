package handlers

import (
	"errors"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/storage"
	"pareto_backend/pkg/apperrors"
)

// FileHandler serves objects of the local storage backend. Public buckets are
// open; anything else needs a valid signed URL.
type FileHandler struct {
	*BaseHandler
	storage *storage.LocalStorage
}

func NewFileHandler(base *BaseHandler, storage *storage.LocalStorage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     storage,
	}
}

// RegisterRoutes mounts the file routes under prefix (the storage base URL)
func (h *FileHandler) RegisterRoutes(r gin.IRouter, prefix string) {
	files := r.Group(strings.TrimRight(prefix, "/"))
	{
		files.GET("/:bucket/*key", h.ServeFile)
		files.HEAD("/:bucket/*key", h.ServeFile)
	}
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	bucket := c.Param("bucket")
	key := strings.TrimPrefix(c.Param("key"), "/")

	if !h.storage.IsPublic(bucket) &&
		!h.storage.VerifySignature(bucket, key, c.Query("expires"), c.Query("signature")) {
		logger.CtxWarn(c.Request.Context(), "Rejected file access", "bucket", bucket, "key", key)
		apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied"))
		return
	}

	path, err := h.storage.Path(bucket, key)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.CtxWithError(c.Request.Context(), "Failed to stat file", err, "path", path)
		}
		apperrors.HandleError(c, apperrors.NewNotFoundError("File not found"))
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.File(path)
}
