package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/internal/sessions"
	"github.com/taskhive/taskhive/internal/users"
	"github.com/taskhive/taskhive/pkg/middleware"
)

// UsersHandler serves the admin user-management screens.
type UsersHandler struct {
	svc      *users.Service
	tokenReg *sessions.Service
}

func NewUsersHandler(svc *users.Service, reg *sessions.Service) *UsersHandler {
	return &UsersHandler{svc: svc, tokenReg: reg}
}

// Register wires /api/users (admin only) and /api/me (any authenticated
// caller).
func (h *UsersHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.GET("/api/me", auth, h.Me)

	admin := rg.Group("/api/users", auth, middleware.RequireRole(roles.Admin))
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// Me returns the caller's own profile.
func (h *UsersHandler) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	u, err := h.svc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UsersHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required"`
		Email       string `json:"email"`
		FullName    string `json:"fullName"`
		PhoneNumber string `json:"phoneNumber"`
		Role        string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, ok := roles.Parse(req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	u, err := h.svc.Create(c.Request.Context(), users.CreateInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
	})
	if err != nil {
		switch err {
		case users.ErrUsernameTaken:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case users.ErrInvalidCredentials, users.ErrInvalidRole:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Update(c *gin.Context) {
	var req struct {
		Email       *string `json:"email"`
		FullName    *string `json:"fullName"`
		PhoneNumber *string `json:"phoneNumber"`
		Role        *string `json:"role"`
		Status      *string `json:"status"`
		Password    *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := users.UpdateInput{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	}
	if req.Role != nil {
		role, ok := roles.Parse(*req.Role)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		in.Role = &role
	}
	if req.Status != nil {
		st := models.AccountStatus(*req.Status)
		if st != models.StatusActive && st != models.StatusInactive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		in.Status = &st
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		switch err {
		case users.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case users.ErrInvalidRole:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}
	// a deactivated account loses its live tokens immediately
	if in.Status != nil && *in.Status == models.StatusInactive && h.tokenReg != nil {
		_ = h.tokenReg.RevokeUser(c.Request.Context(), u.ID)
	}
	c.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if err == users.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if h.tokenReg != nil {
		_ = h.tokenReg.RevokeUser(c.Request.Context(), id)
	}
	c.Status(http.StatusNoContent)
}
