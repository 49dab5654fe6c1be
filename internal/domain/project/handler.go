package project

import (
	"net/http"
	"strconv"

	"iyffa/internal/common"
	"iyffa/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the project domain.
// Reads are public; writes require authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new project handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/projects
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), middleware.MemberID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, p)
}

// Get handles GET /api/projects/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, p)
}

// List handles GET /api/projects
func (h *Handler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, projects)
}

// Update handles PATCH /api/projects/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, p)
}

// Delete handles DELETE /api/projects/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c)); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// AddDocument handles POST /api/projects/:id/documents
func (h *Handler) AddDocument(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	d, err := h.service.AddDocument(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, d)
}

// ListDocuments handles GET /api/projects/:id/documents
func (h *Handler) ListDocuments(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	docs, err := h.service.ListDocuments(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, docs)
}

// DeleteDocument handles DELETE /api/projects/:id/documents/:docID
func (h *Handler) DeleteDocument(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}
	docID, err := paramID(c, "docID")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := h.service.DeleteDocument(c.Request.Context(), id, docID, middleware.MemberID(c), isAdmin(c)); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"deleted": docID})
}

// RegisterPublicRoutes registers the read-only project routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects", h.List)
	rg.GET("/projects/:id", h.Get)
	rg.GET("/projects/:id/documents", h.ListDocuments)
}

// RegisterProtectedRoutes registers the authenticated write routes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects", h.Create)
	rg.PATCH("/projects/:id", h.Update)
	rg.DELETE("/projects/:id", h.Delete)
	rg.POST("/projects/:id/documents", h.AddDocument)
	rg.DELETE("/projects/:id/documents/:docID", h.DeleteDocument)
}

func paramID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func isAdmin(c *gin.Context) bool {
	return middleware.MemberType(c) == "admin"
}
