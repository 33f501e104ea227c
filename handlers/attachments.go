package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/attachments"
	"github.com/taskhive/taskhive/pkg/logger"
	"github.com/taskhive/taskhive/pkg/middleware"
)

const maxAttachmentSize = 32 << 20 // 32 MiB

// AttachmentsHandler serves task file attachments backed by object storage.
type AttachmentsHandler struct {
	svc *attachments.Service
}

func NewAttachmentsHandler(svc *attachments.Service) *AttachmentsHandler {
	return &AttachmentsHandler{svc: svc}
}

func (h *AttachmentsHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("", auth)
	g.GET("/api/tasks/:id/attachments", h.ListByTask)
	g.POST("/api/tasks/:id/attachments", h.Upload)
	g.GET("/api/attachments/:id", h.Download)
	g.GET("/api/attachments/:id/url", h.PresignedURL)
	g.DELETE("/api/attachments/:id", h.Delete)
}

func (h *AttachmentsHandler) ListByTask(c *gin.Context) {
	list, err := h.svc.ListByTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if list == nil {
		list = []*attachments.Attachment{}
	}
	c.JSON(http.StatusOK, list)
}

// Upload accepts a multipart form with a single "file" part.
func (h *AttachmentsHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file part required"})
		return
	}
	if fh.Size > maxAttachmentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read upload failed"})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	claims := middleware.Claims(c)
	a, err := h.svc.Upload(c.Request.Context(), c.Param("id"), fh.Filename, contentType, claims.UserID, f, fh.Size)
	if err != nil {
		logger.Errorf("attachment upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// Download streams the attachment body through the server.
func (h *AttachmentsHandler) Download(c *gin.Context) {
	a, rc, err := h.svc.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == attachments.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("attachment download failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(a.FileName))
	c.DataFromReader(http.StatusOK, a.Size, a.ContentType, rc, nil)
}

// PresignedURL hands out a short-lived direct link so large files bypass
// the API server.
func (h *AttachmentsHandler) PresignedURL(c *gin.Context) {
	url, err := h.svc.PresignedURL(c.Request.Context(), c.Param("id"), 15*time.Minute)
	if err != nil {
		if err == attachments.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("presign failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presign failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": int((15 * time.Minute).Seconds())})
}

func (h *AttachmentsHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == attachments.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("attachment delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
