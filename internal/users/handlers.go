package users

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandlers provides HTTP handlers for user CRUD operations
type UserHandlers struct {
	actions *Actions
	service UserService
	logger  *zap.Logger
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(actions *Actions, service UserService, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{
		actions: actions,
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all user-related routes
func (h *UserHandlers) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PUT("/:userId", h.UpdateUser)
		users.DELETE("/:userId", h.DeleteUser)
	}
}

// ListUsers returns the full user collection
func (h *UserHandlers) ListUsers(c *gin.Context) {
	list, err := h.service.GetUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateUser validates and persists a new user
func (h *UserHandlers) CreateUser(c *gin.Context) {
	var req NewUserParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if fieldErrs := ValidateNewUserParams(req); fieldErrs.Any() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErrs.First(), "fields": fieldErrs})
		return
	}

	if msg := h.actions.CreateUser(c.Request.Context(), req); msg != "" {
		c.JSON(statusForMessage(msg), gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "created"})
}

// UpdateUser validates and persists changes to an existing user
func (h *UserHandlers) UpdateUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	var req UpdateUserParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.ID = userID

	if fieldErrs := ValidateUpdateUserParams(req); fieldErrs.Any() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErrs.First(), "fields": fieldErrs})
		return
	}

	if msg := h.actions.UpdateUser(c.Request.Context(), req); msg != "" {
		c.JSON(statusForMessage(msg), gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteUser removes a user by id
func (h *UserHandlers) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	if msg := h.actions.DeleteUser(c.Request.Context(), userID); msg != "" {
		c.JSON(statusForMessage(msg), gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// statusForMessage maps the action boundary's collapsed error strings back
// onto HTTP statuses. The boundary intentionally carries no codes, so the
// mapping inspects the message text.
func statusForMessage(msg string) int {
	switch {
	case strings.Contains(msg, "is required") || strings.Contains(msg, "is invalid"):
		return http.StatusBadRequest
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "already exists"):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
