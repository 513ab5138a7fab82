package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
	"github.com/smartsitter/core/internal/repository"
	"github.com/smartsitter/core/internal/service"
)

// BookingHandler — HTTP-обёртка над оркестратором бронирований.
// Профиль ситтера резолвится из личности вызывающего: в URL ситтер
// чужой profile_id передать не может.
type BookingHandler struct {
	bookings *service.BookingService
	profiles repository.SitterProfileRepository
}

func NewBookingHandler(bookings *service.BookingService, profiles repository.SitterProfileRepository) *BookingHandler {
	return &BookingHandler{bookings: bookings, profiles: profiles}
}

const dateLayout = "2006-01-02"

type createBookingRequest struct {
	SitterProfileID string `json:"sitterProfileId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Start           string `json:"start" binding:"required"`
	End             string `json:"end" binding:"required"`
	ServiceAddress  string `json:"serviceAddress"`
	Notes           string `json:"notes"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}

	profileID, err := uuid.Parse(req.SitterProfileID)
	if err != nil {
		badRequest(c, "invalid sitterProfileId")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		badRequest(c, "invalid date, want YYYY-MM-DD")
		return
	}
	start, end, ok := parseClockPair(c, req.Start, req.End)
	if !ok {
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), service.CreateBookingInput{
		ParentUserID:    currentUserID(c),
		SitterProfileID: profileID,
		Date:            date,
		Start:           start,
		End:             end,
		ServiceAddress:  req.ServiceAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	b, err := h.bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) History(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rows, err := h.bookings.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": rows})
}

type noteRequest struct {
	Note string `json:"note"`
}

// sitterAction — общий каркас для accept/reject/confirm/complete:
// профиль берём по владельцу, действие — по имени из маршрута.
func (h *BookingHandler) sitterAction(
	c *gin.Context,
	action func(c *gin.Context, bookingID, profileID, actorID uuid.UUID, note string) error,
) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid input: "+err.Error())
			return
		}
	}

	actorID := currentUserID(c)
	profile, err := h.profiles.GetByUserID(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, booking.ErrUnauthorized)
			return
		}
		writeError(c, err)
		return
	}

	if err := action(c, id, profile.ID, actorID, req.Note); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *BookingHandler) Accept(c *gin.Context) {
	h.sitterAction(c, func(c *gin.Context, bookingID, profileID, actorID uuid.UUID, note string) error {
		return h.bookings.Accept(c.Request.Context(), bookingID, profileID, actorID, note)
	})
}

func (h *BookingHandler) Reject(c *gin.Context) {
	h.sitterAction(c, func(c *gin.Context, bookingID, profileID, actorID uuid.UUID, note string) error {
		return h.bookings.Reject(c.Request.Context(), bookingID, profileID, actorID, note)
	})
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.sitterAction(c, func(c *gin.Context, bookingID, profileID, actorID uuid.UUID, note string) error {
		return h.bookings.Confirm(c.Request.Context(), bookingID, profileID, actorID, note)
	})
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.sitterAction(c, func(c *gin.Context, bookingID, profileID, actorID uuid.UUID, note string) error {
		return h.bookings.Complete(c.Request.Context(), bookingID, profileID, actorID, note)
	})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid input: "+err.Error())
			return
		}
	}

	if err := h.bookings.Cancel(c.Request.Context(), id, currentUserID(c), req.Reason); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type rescheduleRequest struct {
	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
	Note  string `json:"note"`
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		badRequest(c, "invalid date, want YYYY-MM-DD")
		return
	}
	start, end, okTime := parseClockPair(c, req.Start, req.End)
	if !okTime {
		return
	}

	if err := h.bookings.Reschedule(c.Request.Context(), id, currentUserID(c), date, start, end, req.Note); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type adminStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func (h *BookingHandler) AdminSetStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req adminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}

	if err := h.bookings.AdminSetStatus(c.Request.Context(), id, req.Status, req.Note, currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type markPaidRequest struct {
	Method        string `json:"method" binding:"required"`
	TransactionID string `json:"transactionId"`
}

func (h *BookingHandler) MarkPaid(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}

	if err := h.bookings.MarkPaid(c.Request.Context(), id, req.Method, req.TransactionID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type checkInRequest struct {
	Location string `json:"location"`
}

// CheckIn отмечает явку ситтера по бронированию. Повторный вызов
// возвращает ту же запись с alreadyCheckedIn=true.
func (h *BookingHandler) CheckIn(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req checkInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid input: "+err.Error())
			return
		}
	}

	a, already, err := h.bookings.CheckIn(c.Request.Context(), id, req.Location)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": a, "alreadyCheckedIn": already})
}

func (h *BookingHandler) CheckOut(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.bookings.CheckOut(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": a})
}

// ListMineAsParent — страница бронирований вызывающего как родителя.
func (h *BookingHandler) ListMineAsParent(c *gin.Context) {
	page, pageSize, ok := pagingQuery(c)
	if !ok {
		return
	}

	result, err := h.bookings.ListForParent(c.Request.Context(),
		currentUserID(c), c.Query("status"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookingsPage(result))
}

// ListMineAsSitter — страница бронирований по профилю ситтера вызывающего.
func (h *BookingHandler) ListMineAsSitter(c *gin.Context) {
	page, pageSize, ok := pagingQuery(c)
	if !ok {
		return
	}

	result, err := h.bookings.ListForSitter(c.Request.Context(),
		currentUserID(c), c.Query("status"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookingsPage(result))
}

func bookingsPage(p booking.Page[model.Booking]) gin.H {
	return gin.H{
		"total":    p.Total,
		"page":     p.Page,
		"pageSize": p.PageSize,
		"items":    p.Items,
	}
}

func pagingQuery(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		badRequest(c, "invalid page")
		return 0, 0, false
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		badRequest(c, "invalid pageSize")
		return 0, 0, false
	}
	return page, pageSize, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseClockPair(c *gin.Context, start, end string) (booking.TimeOfDay, booking.TimeOfDay, bool) {
	s, err := booking.ParseClock(start)
	if err != nil {
		badRequest(c, "invalid start, want HH:MM")
		return 0, 0, false
	}
	e, err := booking.ParseClock(end)
	if err != nil {
		badRequest(c, "invalid end, want HH:MM")
		return 0, 0, false
	}
	return s, e, true
}
