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

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/reviews")
	{
		public.GET("", h.ListReviews)
		public.GET("/:id", h.GetReview)
	}

	r.GET("/bootcamps/:id/reviews", h.ListBootcampReviews)

	// Reviews come from consumers, not publishers.
	protected := r.Group("")
	protected.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleUser, models.UserRoleAdmin),
	)
	{
		protected.POST("/bootcamps/:id/reviews", h.CreateReview)
		protected.PUT("/reviews/:id", h.UpdateReview)
		protected.DELETE("/reviews/:id", h.DeleteReview)
	}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query())

	reviews, res, err := h.reviewService.List(h.GetDB(c), opts)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList(c, reviews, res)
}

func (h *ReviewHandler) ListBootcampReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListByBootcamp(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondCount(c, reviews, len(reviews))
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.Get(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, review)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(
		h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.reviewService.Delete(h.GetDB(c), userID, middleware.GetUserRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, gin.H{})
}
