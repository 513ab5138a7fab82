package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/service"
)

// AvailabilityHandler управляет окнами доступности текущего ситтера.
type AvailabilityHandler struct {
	availabilities *service.AvailabilityService
}

func NewAvailabilityHandler(availabilities *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilities: availabilities}
}

type addAvailabilityRequest struct {
	// Ровно одно из двух: 0..6 (воскресенье = 0) либо конкретная дата.
	DayOfWeek *int    `json:"dayOfWeek"`
	Date      *string `json:"date"`

	Start       string `json:"start" binding:"required"`
	End         string `json:"end" binding:"required"`
	IsAvailable *bool  `json:"isAvailable"`
}

func (h *AvailabilityHandler) Add(c *gin.Context) {
	var req addAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}

	start, end, ok := parseClockPair(c, req.Start, req.End)
	if !ok {
		return
	}

	in := service.AddAvailabilityInput{
		Start:       start,
		End:         end,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		in.IsAvailable = *req.IsAvailable
	}
	if req.DayOfWeek != nil {
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			badRequest(c, "dayOfWeek must be 0..6")
			return
		}
		wd := time.Weekday(*req.DayOfWeek)
		in.DayOfWeek = &wd
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			badRequest(c, "invalid date, want YYYY-MM-DD")
			return
		}
		in.Date = &date
	}

	av, err := h.availabilities.Add(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, av)
}

func (h *AvailabilityHandler) Remove(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.availabilities.Remove(c.Request.Context(), currentUserID(c), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	rows, err := h.availabilities.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availabilities": rows})
}

// Check — GET /sitters/:id/availability: свободен ли профиль в окне.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		badRequest(c, "invalid date, want YYYY-MM-DD")
		return
	}
	var start, end booking.TimeOfDay
	if start, end, ok = parseClockPair(c, c.Query("start"), c.Query("end")); !ok {
		return
	}

	available, err := h.availabilities.IsAvailable(c.Request.Context(), profileID, date, start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}
