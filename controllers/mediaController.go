package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"nagar-connect/media"
)

// MediaService uploads and removes stored files.
type MediaService interface {
	Upload(ctx context.Context, owner string, f media.File) (*media.Stored, error)
	Delete(ctx context.Context, id string) error
	URL(id string) string
}

type MediaController struct {
	media MediaService
	log   zerolog.Logger
}

func NewMediaController(svc MediaService, log zerolog.Logger) *MediaController {
	return &MediaController{media: svc, log: log}
}

// UploadFile handles POST /api/media with a multipart "file" field.
func (mc *MediaController) UploadFile(c *gin.Context) {
	owner := userID(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	// Oversized files are rejected before the body is opened.
	if header.Size > media.MaxFileSize {
		respondError(c, mc.log, media.ErrFileTooLarge)
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	stored, err := mc.media.Upload(c.Request.Context(), owner, media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	})
	if err != nil {
		respondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": stored})
}

// GetFile handles GET /api/media?id=.
func (mc *MediaController) GetFile(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, mc.log, media.ErrMissingID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "url": mc.media.URL(id)})
}

// DeleteFile handles DELETE /api/media?id=.
func (mc *MediaController) DeleteFile(c *gin.Context) {
	if err := mc.media.Delete(c.Request.Context(), c.Query("id")); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		respondError(c, mc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
