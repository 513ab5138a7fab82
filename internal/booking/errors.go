package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smartsitter/core/internal/model"
)

// Ошибки доменного уровня. Сервисы возвращают их напрямую либо обёрнутыми
// через %w, вызывающая сторона разбирает errors.Is/errors.As.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInterval   = errors.New("end time must be greater than start time")
	ErrUnapproved        = errors.New("sitter profile is not approved")
	ErrConflict          = errors.New("time slot conflict")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAmount     = errors.New("booking amount is not set or non-positive")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrInvalidWindow     = errors.New("provide exactly one: day of week or specific date")
)

// TransitionError описывает недопустимый переход статуса: текущий статус,
// запрошенный и множество легальных следующих.
type TransitionError struct {
	From    model.BookingStatus
	To      model.BookingStatus
	Allowed []model.BookingStatus
}

func (e *TransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		allowed = append(allowed, string(s))
	}
	return fmt.Sprintf("invalid transition: %s -> %s, allowed: %s",
		e.From, e.To, strings.Join(allowed, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewTransitionError фиксирует набор допустимых переходов на момент ошибки.
func NewTransitionError(from, to model.BookingStatus) *TransitionError {
	return &TransitionError{From: from, To: to, Allowed: AllowedNext(from)}
}
