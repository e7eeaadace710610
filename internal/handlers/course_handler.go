package handlers

import (
	"net/http"

	"bootcamp_backend/internal/middleware"
	"bootcamp_backend/internal/models"
	"bootcamp_backend/internal/query"
	"bootcamp_backend/internal/services"
	"bootcamp_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	*BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(base *BaseHandler, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   base,
		courseService: courseService,
	}
}

func (h *CourseHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/courses")
	{
		public.GET("", h.ListCourses)
		public.GET("/:id", h.GetCourse)
	}

	r.GET("/bootcamps/:id/courses", h.ListBootcampCourses)

	protected := r.Group("")
	protected.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRolePublisher, models.UserRoleAdmin),
	)
	{
		protected.POST("/bootcamps/:id/courses", h.CreateCourse)
		protected.PUT("/courses/:id", h.UpdateCourse)
		protected.DELETE("/courses/:id", h.DeleteCourse)
	}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query())

	courses, res, err := h.courseService.List(h.GetDB(c), opts)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList(c, courses, res)
}

func (h *CourseHandler) ListBootcampCourses(c *gin.Context) {
	courses, err := h.courseService.ListByBootcamp(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondCount(c, courses, len(courses))
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.Create(
		h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.Update(
		h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.courseService.Delete(h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{})
}
