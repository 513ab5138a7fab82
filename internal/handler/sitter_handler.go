package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/repository"
	"github.com/smartsitter/core/internal/service"
)

// SitterHandler — публичный поиск ситтеров и админские операции над профилем.
type SitterHandler struct {
	sitters *service.SitterService
}

func NewSitterHandler(sitters *service.SitterService) *SitterHandler {
	return &SitterHandler{sitters: sitters}
}

// Search — GET /sitters. Публичная выдача всегда ограничена одобренными
// профилями; параметры фильтра приходят query-строкой.
func (h *SitterHandler) Search(c *gin.Context) {
	f := repository.SearchFilter{
		OnlyApproved: true,
		Location:     c.Query("location"),
	}

	if v := c.Query("minRate"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			badRequest(c, "invalid minRate")
			return
		}
		f.MinRate = &rate
	}
	if v := c.Query("maxRate"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			badRequest(c, "invalid maxRate")
			return
		}
		f.MaxRate = &rate
	}
	if v := c.Query("minExperienceYears"); v != "" {
		years, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid minExperienceYears")
			return
		}
		f.MinExperienceYears = &years
	}
	if v := c.Query("skills"); v != "" {
		f.Skills = strings.Split(v, ",")
	}
	if v := c.Query("date"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			badRequest(c, "invalid date, want YYYY-MM-DD")
			return
		}
		f.Date = &date
	}
	if v := c.Query("start"); v != "" {
		start, err := booking.ParseClock(v)
		if err != nil {
			badRequest(c, "invalid start, want HH:MM")
			return
		}
		f.Start = &start
	}
	if v := c.Query("end"); v != "" {
		end, err := booking.ParseClock(v)
		if err != nil {
			badRequest(c, "invalid end, want HH:MM")
			return
		}
		f.End = &end
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	page, err := h.sitters.Search(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *SitterHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	card, err := h.sitters.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

type approveRequest struct {
	Approve bool `json:"approve"`
}

func (h *SitterHandler) AdminApprove(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}

	if err := h.sitters.Approve(c.Request.Context(), id, req.Approve); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type replaceSkillsRequest struct {
	Skills []string `json:"skills"`
}

func (h *SitterHandler) ReplaceSkills(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req replaceSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}

	if err := h.sitters.ReplaceSkills(c.Request.Context(), id, req.Skills); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
