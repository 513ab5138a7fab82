package booking

import (
	"strings"

	"github.com/smartsitter/core/internal/model"
)

// Таблица легальных переходов статуса бронирования:
//
//	pending   -> accepted, rejected, cancelled
//	accepted  -> confirmed, rejected, cancelled
//	confirmed -> completed, cancelled
//
// rejected и completed — терминальные, cancelled допускает только
// повтор самого себя (no-op). pending — единственный начальный статус.

// AllowedNext возвращает множество легальных следующих статусов.
// Чистая функция, тестируется отдельно от хранилища.
func AllowedNext(from model.BookingStatus) []model.BookingStatus {
	switch from {
	case model.BookingStatusPending:
		return []model.BookingStatus{
			model.BookingStatusAccepted,
			model.BookingStatusRejected,
			model.BookingStatusCancelled,
		}
	case model.BookingStatusAccepted:
		return []model.BookingStatus{
			model.BookingStatusConfirmed,
			model.BookingStatusRejected,
			model.BookingStatusCancelled,
		}
	case model.BookingStatusConfirmed:
		return []model.BookingStatus{
			model.BookingStatusCompleted,
			model.BookingStatusCancelled,
		}
	default:
		return nil
	}
}

// CanTransition — легален ли переход from -> to.
// Переход в тот же статус всегда допустим как no-op.
func CanTransition(from, to model.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, s := range AllowedNext(from) {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStatus разбирает имя статуса без учёта регистра.
func ParseStatus(name string) (model.BookingStatus, bool) {
	switch model.BookingStatus(strings.ToLower(strings.TrimSpace(name))) {
	case model.BookingStatusPending:
		return model.BookingStatusPending, true
	case model.BookingStatusAccepted:
		return model.BookingStatusAccepted, true
	case model.BookingStatusRejected:
		return model.BookingStatusRejected, true
	case model.BookingStatusConfirmed:
		return model.BookingStatusConfirmed, true
	case model.BookingStatusCompleted:
		return model.BookingStatusCompleted, true
	case model.BookingStatusCancelled:
		return model.BookingStatusCancelled, true
	default:
		return "", false
	}
}

// IsTerminal — нет ни одного исходящего перехода (кроме no-op).
func IsTerminal(s model.BookingStatus) bool {
	return len(AllowedNext(s)) == 0
}

// ActiveStatuses — статусы, участвующие в проверке конфликтов интервалов.
// completed/cancelled/rejected никогда не конфликтуют.
func ActiveStatuses() []model.BookingStatus {
	return []model.BookingStatus{
		model.BookingStatusPending,
		model.BookingStatusAccepted,
		model.BookingStatusConfirmed,
	}
}
