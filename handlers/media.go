package handlers

import (
	"net/http"
	"strings"

	"lashstudio/services/storage"
	"lashstudio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MediaHandler struct {
	MediaService storage.MediaService
}

func NewMediaHandler(svc storage.MediaService) *MediaHandler {
	return &MediaHandler{MediaService: svc}
}

// UploadHandler handles POST /api/media/upload (multipart, field "file").
func (h *MediaHandler) UploadHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadBytes+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "File not provided", err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		getLogger(c).Error("failed to open uploaded file", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", "Could not read uploaded file", "")
		return
	}
	defer file.Close()

	var tags []string
	for _, tag := range strings.Split(c.PostForm("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	item, err := h.MediaService.Upload(c.Request.Context(), p, storage.FileInput{
		Body:         file,
		Filename:     fileHeader.Filename,
		Size:         fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		AltText:      c.PostForm("altText"),
		Caption:      c.PostForm("caption"),
		Tags:         tags,
		UsageContext: c.PostForm("usageContext"),
	})
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, gin.H{"media": item})
}

// ListHandler handles GET /api/media?usageContext=.
func (h *MediaHandler) ListHandler(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, err := h.MediaService.List(c.Request.Context(), p, c.Query("usageContext"))
	if err != nil {
		utils.RespondError(c, getLogger(c), err)
		return
	}
	utils.RespondOK(c, http.StatusOK, gin.H{"media": items, "count": len(items)})
}
