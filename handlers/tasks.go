package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/tasks"
)

// TasksHandler serves task and subtask CRUD for any authenticated caller.
type TasksHandler struct {
	svc *tasks.Service
}

func NewTasksHandler(svc *tasks.Service) *TasksHandler {
	return &TasksHandler{svc: svc}
}

func (h *TasksHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("", auth)
	g.GET("/api/projects/:id/tasks", h.ListByProject)
	g.POST("/api/projects/:id/tasks", h.Create)
	g.GET("/api/tasks/:id", h.Get)
	g.PATCH("/api/tasks/:id", h.Update)
	g.DELETE("/api/tasks/:id", h.Delete)

	g.POST("/api/tasks/:id/subtasks", h.AddSubtask)
	g.PATCH("/api/tasks/:id/subtasks/:subtaskId", h.UpdateSubtask)
	g.DELETE("/api/tasks/:id/subtasks/:subtaskId", h.RemoveSubtask)
}

func (h *TasksHandler) ListByProject(c *gin.Context) {
	list, err := h.svc.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if list == nil {
		list = []*tasks.Task{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *TasksHandler) Create(c *gin.Context) {
	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		AssigneeID  string     `json:"assigneeId"`
		DueDate     *time.Time `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), c.Param("id"), req.Title, req.Description, req.AssigneeID, req.DueDate)
	if err != nil {
		if err == tasks.ErrTitleRequired {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == tasks.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) Update(c *gin.Context) {
	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		AssigneeID  *string    `json:"assigneeId"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := tasks.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		st := tasks.Status(*req.Status)
		in.Status = &st
	}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		switch err {
		case tasks.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case tasks.ErrTitleRequired, tasks.ErrInvalidStatus:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == tasks.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TasksHandler) AddSubtask(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.AddSubtask(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		h.subtaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) UpdateSubtask(c *gin.Context) {
	var req struct {
		Title *string `json:"title"`
		Done  *bool   `json:"done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.UpdateSubtask(c.Request.Context(), c.Param("id"), c.Param("subtaskId"), req.Title, req.Done)
	if err != nil {
		h.subtaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) RemoveSubtask(c *gin.Context) {
	t, err := h.svc.RemoveSubtask(c.Request.Context(), c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		h.subtaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) subtaskError(c *gin.Context, err error) {
	switch err {
	case tasks.ErrNotFound, tasks.ErrSubtaskNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case tasks.ErrTitleRequired:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subtask operation failed"})
	}
}
