package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
)

// writeError переводит доменную ошибку в HTTP-статус. Всё, что не
// распознано, уходит как 500 без деталей — текст ошибки остаётся в логах.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, booking.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, booking.ErrConflict), errors.Is(err, booking.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrInvalidInterval),
		errors.Is(err, booking.ErrInvalidWindow),
		errors.Is(err, booking.ErrInvalidRating),
		errors.Is(err, booking.ErrInvalidAmount),
		errors.Is(err, booking.ErrUnapproved):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
