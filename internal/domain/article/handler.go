package article

import (
	"net/http"
	"strconv"

	"iyffa/internal/common"
	"iyffa/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the article domain.
// Reads are public; writes require authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new article handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/articles
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	a, err := h.service.Create(c.Request.Context(), middleware.MemberID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, a)
}

// Get handles GET /api/articles/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid article id")
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, a)
}

// List handles GET /api/articles
func (h *Handler) List(c *gin.Context) {
	articles, err := h.service.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, articles)
}

// Update handles PATCH /api/articles/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid article id")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, a)
}

// Delete handles DELETE /api/articles/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid article id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c)); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// RegisterPublicRoutes registers the read-only article routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/articles", h.List)
	rg.GET("/articles/:id", h.Get)
}

// RegisterProtectedRoutes registers the authenticated write routes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/articles", h.Create)
	rg.PATCH("/articles/:id", h.Update)
	rg.DELETE("/articles/:id", h.Delete)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func isAdmin(c *gin.Context) bool {
	return middleware.MemberType(c) == "admin"
}
