package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog/internal/models"
	"catalog/internal/storage"
)

func (h *Handler) uploadImage(c *gin.Context) {
	storage.LimitBody(c.Writer, c.Request, h.uploadMaxBytes)
	fh, err := c.FormFile("file")
	if storage.IsBodyTooLarge(err) {
		fail(c, http.StatusRequestEntityTooLarge, models.MsgImageTooLarge)
		return
	}
	if err != nil {
		fail(c, http.StatusBadRequest, "No file provided")
		return
	}

	url, err := storage.UploadImage(c.Request.Context(), h.uploader, fh, h.uploadMaxBytes)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"url": url})
	case errors.Is(err, storage.ErrNotConfigured):
		fail(c, http.StatusServiceUnavailable, "Image storage is not configured")
	case errors.Is(err, storage.ErrNotImage):
		fail(c, http.StatusBadRequest, "Only image files can be uploaded")
	case errors.Is(err, storage.ErrTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, models.MsgImageTooLarge)
	default:
		_ = c.Error(err)
		zap.S().Errorf("upload %q: %v", fh.Filename, err)
		fail(c, http.StatusBadGateway, "Failed to upload image")
	}
}
