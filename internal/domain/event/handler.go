package event

import (
	"net/http"
	"strconv"

	"iyffa/internal/common"
	"iyffa/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the event domain.
// Reads are public; writes require authentication; the reminder
// broadcast is admin-only.
type Handler struct {
	service *Service
}

// NewHandler creates a new event handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/events
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	e, err := h.service.Create(c.Request.Context(), middleware.MemberID(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, e)
}

// Get handles GET /api/events/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid event id")
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, e)
}

// List handles GET /api/events
func (h *Handler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, events)
}

// Update handles PATCH /api/events/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	e, err := h.service.Update(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, e)
}

// Delete handles DELETE /api/events/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c)); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// AddImage handles POST /api/events/:id/images
func (h *Handler) AddImage(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	img, err := h.service.AddImage(c.Request.Context(), id, middleware.MemberID(c), isAdmin(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, img)
}

// ListImages handles GET /api/events/:id/images
func (h *Handler) ListImages(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid event id")
		return
	}

	images, err := h.service.ListImages(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, images)
}

// DeleteImage handles DELETE /api/events/:id/images/:imageID
func (h *Handler) DeleteImage(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid event id")
		return
	}
	imageID, err := paramID(c, "imageID")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), id, imageID, middleware.MemberID(c), isAdmin(c)); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"deleted": imageID})
}

// Remind handles POST /api/admin/events/:id/remind
func (h *Handler) Remind(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid event id")
		return
	}

	count, err := h.service.Remind(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"reminders_enqueued": count})
}

// RegisterPublicRoutes registers the read-only event routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/events", h.List)
	rg.GET("/events/:id", h.Get)
	rg.GET("/events/:id/images", h.ListImages)
}

// RegisterProtectedRoutes registers the authenticated write routes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/events", h.Create)
	rg.PATCH("/events/:id", h.Update)
	rg.DELETE("/events/:id", h.Delete)
	rg.POST("/events/:id/images", h.AddImage)
	rg.DELETE("/events/:id/images/:imageID", h.DeleteImage)
}

// RegisterAdminRoutes registers the admin-only reminder broadcast.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/events/:id/remind", h.Remind)
}

func paramID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func isAdmin(c *gin.Context) bool {
	return middleware.MemberType(c) == "admin"
}
