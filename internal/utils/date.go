package utils

import (
	"time"
)

// StartCurrentDay возвращает дату с временем 00:00, таймзона остается прежней.
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay возвращает новую дату, где день увеличен на 1, время установлено на 00:00.
func StartNextDay(t time.Time) time.Time {
	newDate := t.AddDate(0, 0, 1)
	return StartCurrentDay(newDate)
}

// SameDay сравнивает только календарные даты, без времени.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// BookingWindow возвращает диапазон окна бронирования: с завтрашнего дня на days дней вперед.
// Конец диапазона - конец последнего дня окна.
func BookingWindow(now time.Time, days int) (time.Time, time.Time) {
	from := StartNextDay(now)
	to := StartNextDay(from.AddDate(0, 0, days-1)).Add(-time.Second)
	return from, to
}

// BookingWindowDates возвращает выбираемые даты окна: будни, без выходных.
// Выходные не отображаются в календаре, это политика записи, а не ограничение протокола.
func BookingWindowDates(now time.Time, days int) []time.Time {
	dates := make([]time.Time, 0, days)
	current := StartNextDay(now)
	for i := 0; i < days; i++ {
		if !IsWeekend(current) {
			dates = append(dates, current)
		}
		current = StartNextDay(current)
	}
	return dates
}

// EditCutoffPassed проверяет правило "после cutoffHour нельзя трогать запись на завтра".
func EditCutoffPassed(now, visitDate time.Time, cutoffHour int) bool {
	tomorrow := StartNextDay(now)
	return SameDay(visitDate, tomorrow) && now.Hour() >= cutoffHour
}
