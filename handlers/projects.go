package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/projects"
	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/internal/tasks"
	"github.com/taskhive/taskhive/pkg/middleware"
)

// ProjectsHandler serves project CRUD. Managers and admins see and manage
// everything; users see the projects they belong to.
type ProjectsHandler struct {
	svc      *projects.Service
	tasksSvc *tasks.Service
}

func NewProjectsHandler(svc *projects.Service, tasksSvc *tasks.Service) *ProjectsHandler {
	return &ProjectsHandler{svc: svc, tasksSvc: tasksSvc}
}

func (h *ProjectsHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/api/projects", auth)
	g.GET("", h.List)
	g.GET("/:id", h.Get)

	manage := g.Group("", middleware.RequireRole(roles.Admin, roles.Manager))
	manage.POST("", h.Create)
	manage.PUT("/:id", h.Update)
	manage.DELETE("/:id", h.Delete)
}

func (h *ProjectsHandler) List(c *gin.Context) {
	claims := middleware.Claims(c)
	var (
		list []*projects.Project
		err  error
	)
	if claims.Role == roles.User {
		list, err = h.svc.ListMine(c.Request.Context(), claims.UserID)
	} else {
		list, err = h.svc.ListAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ProjectsHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == projects.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	claims := middleware.Claims(c)
	if claims.Role == roles.User && !p.HasMember(claims.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a project member"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectsHandler) Create(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		MemberIDs   []string `json:"memberIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := middleware.Claims(c)
	p, err := h.svc.Create(c.Request.Context(), req.Name, req.Description, claims.UserID, req.MemberIDs)
	if err != nil {
		if err == projects.ErrNameRequired {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProjectsHandler) Update(c *gin.Context) {
	var req struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		MemberIDs   *[]string `json:"memberIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description, req.MemberIDs)
	if err != nil {
		switch err {
		case projects.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case projects.ErrNameRequired:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete removes the project and its tasks.
func (h *ProjectsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if err == projects.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if h.tasksSvc != nil {
		_ = h.tasksSvc.DeleteByProject(c.Request.Context(), id)
	}
	c.Status(http.StatusNoContent)
}
