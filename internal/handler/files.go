package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filechat-lite/internal/blob"
	"filechat-lite/internal/hub"
	"filechat-lite/internal/model"
	"filechat-lite/internal/store"
	"filechat-lite/internal/view"
)

type FileHandler struct {
	Files          *store.FileStore
	Hub            *hub.Hub
	Logger         *zap.Logger
	MaxUploadBytes int64
}

type fileView struct {
	model.FileRecord
	SizeLabel string `json:"sizeLabel"`
	Kind      string `json:"kind"`
}

func newFileView(f model.FileRecord) fileView {
	return fileView{
		FileRecord: f,
		SizeLabel:  view.FormatFileSize(f.Size),
		Kind:       view.FileKind(f.Type),
	}
}

func fileViews(files []model.FileRecord) []fileView {
	out := make([]fileView, 0, len(files))
	for _, f := range files {
		out = append(out, newFileView(f))
	}
	return out
}

func (h *FileHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"files": fileViews(h.Files.List())})
}

// Upload stores every part of the "files" field in order, waiting for each
// upload to complete before starting the next.
func (h *FileHandler) Upload(c *gin.Context) {
	log := logger(h.Logger)
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload"})
		return
	}
	parts := form.File["files"]
	if len(parts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	ctx := c.Request.Context()
	uploaded := make([]fileView, 0, len(parts))
	for _, part := range parts {
		content, err := part.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload"})
			return
		}
		pending, err := h.Files.Upload(ctx, content, part.Filename, part.Size, contentType(part.Header.Get("Content-Type"), part.Filename))
		_ = content.Close()
		if err != nil {
			log.Error("file upload failed", zap.String("name", part.Filename), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file(s)"})
			return
		}

		f, err := pending.Wait(ctx)
		if err != nil {
			return
		}
		uploaded = append(uploaded, newFileView(f))
		log.Info("file uploaded", zap.String("id", f.ID), zap.String("name", f.Name), zap.Int64("size", f.Size))
	}

	publish(h.Hub, hub.StoreFiles)
	c.JSON(http.StatusCreated, gin.H{"files": uploaded})
}

func (h *FileHandler) Download(c *gin.Context) {
	f, content, err := h.Files.Open(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrFileNotFound) || errors.Is(err, blob.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if err != nil {
		logger(h.Logger).Error("file download failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download file"})
		return
	}
	defer content.Close()

	ct := f.Type
	if ct == "" {
		ct = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.Name})
	c.DataFromReader(http.StatusOK, f.Size, ct, content, map[string]string{
		"Content-Disposition": disposition,
	})
}

func (h *FileHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.Files.Delete(ctx, c.Param("id")).Wait(ctx); err != nil {
		return
	}
	publish(h.Hub, hub.StoreFiles)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// contentType keeps the declared type unless the client sent nothing more
// specific than an octet stream.
func contentType(declared, name string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		return byExt
	}
	return declared
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
