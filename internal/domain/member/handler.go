package member

import (
	"net/http"
	"strconv"

	"iyffa/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the member domain.
// Registration is public; everything else is admin-only.
type Handler struct {
	service *Service
}

// NewHandler creates a new member handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /api/members
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, m)
}

// Get handles GET /api/members/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid member id")
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, m)
}

// List handles GET /api/members
func (h *Handler) List(c *gin.Context) {
	members, err := h.service.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, members)
}

// Update handles PATCH /api/members/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid member id")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, m)
}

// Delete handles DELETE /api/members/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid member id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// Stats handles GET /api/members/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, stats)
}

// RegisterPublicRoutes registers routes that don't require authentication.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/members", h.Register)
}

// RegisterAdminRoutes registers admin-only member management routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/members", h.List)
	rg.GET("/members/stats", h.Stats)
	rg.GET("/members/:id", h.Get)
	rg.PATCH("/members/:id", h.Update)
	rg.DELETE("/members/:id", h.Delete)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
