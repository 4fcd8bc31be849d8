package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlotTemplate фиксированный дневной шаблон слотов и тарифы
// Один глобальный шаблон на все консультации, задаётся конфигурацией
type SlotTemplate struct {
	Slots           []string // упорядоченные метки "HH:MM"
	DurationMinutes int
	Amount          decimal.Decimal
	Currency        string
	Location        *time.Location // бизнес-таймзона для проверки "дата в прошлом"
}

// Contains проверяет, что метка входит в шаблон
func (t SlotTemplate) Contains(slot string) bool {
	for _, s := range t.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Defaults копия всех слотов шаблона
func (t SlotTemplate) Defaults() []string {
	out := make([]string, len(t.Slots))
	copy(out, t.Slots)
	return out
}

// Available слоты шаблона, не занятые активными бронями, в порядке шаблона
func (t SlotTemplate) Available(taken []string) []string {
	takenSet := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		takenSet[s] = struct{}{}
	}

	out := make([]string, 0, len(t.Slots))
	for _, s := range t.Slots {
		if _, ok := takenSet[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// IsPastDate сообщает, что календарная дата раньше "сегодня" в таймзоне loc
func IsPastDate(date time.Time, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc)
	y, m, d := date.Date()
	dateOnly := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	todayOnly := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(todayOnly)
}

// DateOnly обрезает время, оставляя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
