package booking

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/smartsitter/core/internal/model"
)

// TimeOfDay — время суток в минутах от полуночи (0..1440).
// Интервалы внутри одного дня сравниваются целочисленно.
type TimeOfDay int

const MinutesPerDay = 1440

// ParseClock разбирает строку формата "15:04".
func ParseClock(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

// Interval — интервал бронирования [Start, End) внутри одного дня.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval создаёт интервал. End <= Start — ErrInvalidInterval.
func NewInterval(start, end TimeOfDay) (Interval, error) {
	if !start.Valid() || !end.Valid() || end <= start {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Hours — длительность в часах (для расчёта стоимости rate×часы).
func (iv Interval) Hours() float64 {
	return float64(iv.End-iv.Start) / 60.0
}

// Overlaps — полуоткрытое пересечение: касание границ пересечением НЕ считается.
// a.Start < b.End && a.End > b.Start.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && iv.End > other.Start
}

// Window — окно доступности. В отличие от Interval проверяется на
// ПОЛНОЕ включение запроса, границы включительно: слот может касаться
// края окна, но не края другого бронирования.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains — row.start <= start && row.end >= end.
func (w Window) Contains(iv Interval) bool {
	return w.Start <= iv.Start && w.End >= iv.End
}

// DateOf нормализует момент времени до календарной даты (UTC, полночь) —
// единый способ записи и сравнения date-колонок.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// WindowMatchesDate — подходит ли строка доступности к дате:
// либо конкретная дата совпадает, либо дата не задана и совпадает день недели.
func WindowMatchesDate(av model.Availability, date time.Time) bool {
	if av.Date != nil {
		return time.Time(*av.Date).Equal(time.Time(DateOf(date)))
	}
	if av.DayOfWeek != nil {
		return time.Weekday(*av.DayOfWeek) == date.UTC().Weekday()
	}
	return false
}

// WindowCovers — существует ли среди строк хотя бы одно включающее окно
// (экзистенциальная проверка, как в матчере доступности).
func WindowCovers(rows []model.Availability, date time.Time, iv Interval) bool {
	for _, av := range rows {
		if !av.IsAvailable {
			continue
		}
		if !WindowMatchesDate(av, date) {
			continue
		}
		w := Window{Start: TimeOfDay(av.StartMin), End: TimeOfDay(av.EndMin)}
		if w.Contains(iv) {
			return true
		}
	}
	return false
}
