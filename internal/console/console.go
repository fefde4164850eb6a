// Package console serves the server-rendered users page: the list view with
// its create/edit forms, driven by the same page and form controllers the
// client components use.
package console

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/userdeck/userdeck/internal/listview"
	"github.com/userdeck/userdeck/internal/users"
)

//go:embed templates/*
var templateFiles embed.FS

// ConsoleService handles the users console
type ConsoleService struct {
	Page   *listview.Page
	Logger *zap.Logger
}

// NewConsoleService creates a new console service
func NewConsoleService(page *listview.Page, logger *zap.Logger) *ConsoleService {
	return &ConsoleService{
		Page:   page,
		Logger: logger,
	}
}

// SetupRoutes sets up the console routes
func (cs *ConsoleService) SetupRoutes(router *gin.Engine) {
	consoleGroup := router.Group("/console")
	{
		consoleGroup.GET("/users", cs.serveUsers)
		consoleGroup.POST("/users", cs.submitCreate)
		consoleGroup.POST("/users/:userId", cs.submitUpdate)
		consoleGroup.POST("/users/:userId/delete", cs.submitDelete)
	}
}

// serveUsers renders the list page. Every navigation refetches from the
// source of truth.
func (cs *ConsoleService) serveUsers(c *gin.Context) {
	if err := cs.Page.Load(c.Request.Context()); err != nil {
		cs.Logger.Error("Failed to load users page", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load users")
		return
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/users.html")
	if err != nil {
		cs.Logger.Error("Failed to parse users template", zap.Error(err))
		c.String(http.StatusInternalServerError, "Template Error: "+err.Error())
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err = tmpl.Execute(c.Writer, gin.H{
		"Users":   cs.Page.Rows(),
		"Prefill": cs.Page.Prefill(),
	})
	if err != nil {
		cs.Logger.Error("Failed to render users template", zap.Error(err))
	}
}

func (cs *ConsoleService) submitCreate(c *gin.Context) {
	controller := cs.Page.StartCreate()
	controller.Submit(c.Request.Context(), payloadFrom(c))
	if errs := controller.Errors(); errs.Any() {
		c.String(http.StatusBadRequest, errs.First())
		return
	}
	c.Redirect(http.StatusSeeOther, "/console/users")
}

func (cs *ConsoleService) submitUpdate(c *gin.Context) {
	if err := cs.Page.Load(c.Request.Context()); err != nil {
		c.String(http.StatusInternalServerError, "Failed to load users")
		return
	}

	controller, err := cs.Page.StartEdit(c.Param("userId"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}
	controller.Submit(c.Request.Context(), payloadFrom(c))
	if errs := controller.Errors(); errs.Any() {
		c.String(http.StatusBadRequest, errs.First())
		return
	}
	c.Redirect(http.StatusSeeOther, "/console/users")
}

func (cs *ConsoleService) submitDelete(c *gin.Context) {
	if err := cs.Page.Load(c.Request.Context()); err != nil {
		c.String(http.StatusInternalServerError, "Failed to load users")
		return
	}

	controller, err := cs.Page.StartEdit(c.Param("userId"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}
	controller.Delete(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/console/users")
}

// payloadFrom collects the raw form submission. The isPaid checkbox is only
// present when checked.
func payloadFrom(c *gin.Context) users.FormPayload {
	payload := users.FormPayload{
		"email": c.PostForm("email"),
		"name":  c.PostForm("name"),
	}
	if value, ok := c.GetPostForm("isPaid"); ok {
		payload["isPaid"] = value
	}
	return payload
}
