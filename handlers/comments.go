package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/comments"
	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/pkg/middleware"
)

// CommentsHandler serves task comments. Anyone authenticated can read and
// post; editing is author-only, deletion is author-or-admin.
type CommentsHandler struct {
	svc *comments.Service
}

func NewCommentsHandler(svc *comments.Service) *CommentsHandler {
	return &CommentsHandler{svc: svc}
}

func (h *CommentsHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("", auth)
	g.GET("/api/tasks/:id/comments", h.ListByTask)
	g.POST("/api/tasks/:id/comments", h.Create)
	g.PUT("/api/comments/:id", h.Update)
	g.DELETE("/api/comments/:id", h.Delete)
}

func (h *CommentsHandler) ListByTask(c *gin.Context) {
	list, err := h.svc.ListByTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if list == nil {
		list = []*comments.Comment{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommentsHandler) Create(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := middleware.Claims(c)
	cm, err := h.svc.Create(c.Request.Context(), c.Param("id"), claims.UserID, req.Body)
	if err != nil {
		if err == comments.ErrBodyRequired {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (h *CommentsHandler) Update(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := middleware.Claims(c)
	cm, err := h.svc.Update(c.Request.Context(), c.Param("id"), claims.UserID, req.Body)
	if err != nil {
		h.commentError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *CommentsHandler) Delete(c *gin.Context) {
	claims := middleware.Claims(c)
	err := h.svc.Delete(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role == roles.Admin)
	if err != nil {
		h.commentError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentsHandler) commentError(c *gin.Context, err error) {
	switch err {
	case comments.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case comments.ErrNotAuthor:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case comments.ErrBodyRequired:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comment operation failed"})
	}
}
