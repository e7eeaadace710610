package handlers

import (
	"net/http"
	"strconv"

	"bootcamp_backend/internal/middleware"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"
	"bootcamp_backend/internal/services"
	"bootcamp_backend/internal/services/dto"
	"bootcamp_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BootcampHandler struct {
	*BaseHandler
	bootcampService services.BootcampService
}

func NewBootcampHandler(base *BaseHandler, bootcampService services.BootcampService) *BootcampHandler {
	return &BootcampHandler{
		BaseHandler:     base,
		bootcampService: bootcampService,
	}
}

func (h *BootcampHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/bootcamps")
	{
		public.GET("", h.ListBootcamps)
		public.GET("/:id", h.GetBootcamp)
		public.GET("/radius/:zipcode/:distance", h.GetBootcampsInRadius)
	}

	protected := r.Group("/bootcamps")
	protected.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRolePublisher, models.UserRoleAdmin),
	)
	{
		protected.POST("", h.CreateBootcamp)
		protected.PUT("/:id", h.UpdateBootcamp)
		protected.DELETE("/:id", h.DeleteBootcamp)
		protected.PUT("/:id/photo", h.UploadPhoto)
	}
}

// ListBootcamps supports filtering, projection, sorting and windowing
// through the query string.
func (h *BootcampHandler) ListBootcamps(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query())

	bootcamps, res, err := h.bootcampService.List(h.GetDB(c), opts)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList(c, bootcamps, res)
}

func (h *BootcampHandler) GetBootcamp(c *gin.Context) {
	bootcamp, err := h.bootcampService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, bootcamp)
}

func (h *BootcampHandler) GetBootcampsInRadius(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Distance must be a number of miles"))
		return
	}

	bootcamps, err := h.bootcampService.GetWithinRadius(
		c.Request.Context(), h.GetDB(c), c.Param("zipcode"), distance)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondCount(c, bootcamps, len(bootcamps))
}

func (h *BootcampHandler) CreateBootcamp(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBootcampRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	bootcamp, err := h.bootcampService.Create(
		c.Request.Context(), h.GetDB(c), userID, middleware.GetUserRole(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, bootcamp)
}

func (h *BootcampHandler) UpdateBootcamp(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBootcampRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	bootcamp, err := h.bootcampService.Update(
		c.Request.Context(), h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, bootcamp)
}

func (h *BootcampHandler) DeleteBootcamp(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.bootcampService.Delete(h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{})
}

func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Please upload a file"))
		return
	}

	filename, err := h.bootcampService.UploadPhoto(
		c.Request.Context(), h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, filename)
}
