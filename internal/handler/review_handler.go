package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartsitter/core/internal/service"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		badRequest(c, "invalid bookingId")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), currentUserID(c), bookingID, req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// CanReview — предварительная проверка перед формой отзыва.
func (h *ReviewHandler) CanReview(c *gin.Context) {
	bookingID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	allowed, reason, err := h.reviews.CanReview(c.Request.Context(), currentUserID(c), bookingID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowed": allowed, "reason": reason})
}

func (h *ReviewHandler) ListMine(c *gin.Context) {
	rows, err := h.reviews.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": rows})
}

type moderationRequest struct {
	Approve bool `json:"approve"`
	Hide    bool `json:"hide"`
}

func (h *ReviewHandler) AdminDecision(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req moderationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}

	if err := h.reviews.AdminDecision(c.Request.Context(), id, req.Approve, req.Hide); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
