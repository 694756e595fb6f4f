package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"jobboard/internal/api/dto"
	"jobboard/internal/api/middleware"
	"jobboard/internal/api/service"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	svc service.ApplicationService
}

func NewApplicationHandler(svc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// RegisterJobRoutes mounts the submission endpoint under /jobs.
func (h *ApplicationHandler) RegisterJobRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/applications", h.Submit)
}

// RegisterRoutes mounts the application endpoints. Visibility is enforced by
// the service, so one route set serves all three roles.
func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/status", h.SetStatus)
	rg.DELETE("/:id", h.Withdraw)
}

func applicationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return 0, false
	}
	return id, true
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	application, err := h.svc.Submit(ctx, middleware.SessionFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": application})
}

func (h *ApplicationHandler) List(c *gin.Context) {
	var query dto.ApplicationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	applications, err := h.svc.List(ctx, middleware.SessionFrom(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	application, err := h.svc.Get(ctx, middleware.SessionFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": application})
}

func (h *ApplicationHandler) SetStatus(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}

	var req dto.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.SetStatus(ctx, middleware.SessionFrom(c), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Withdraw(ctx, middleware.SessionFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
