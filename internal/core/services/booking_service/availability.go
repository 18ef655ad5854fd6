package booking_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
	"github.com/suchimauz/clinic-booking-service/internal/utils"
)

// LoadAvailability загружает ленту расписания текущего врача на все окно
// бронирования одним запросом. Перезагружается только при смене врача,
// листание дат обслуживается проекцией ResolveAvailability без сети.
func (s *BookingService) LoadAvailability(ctx context.Context, caller domain.LineUserID) error {
	s.mu.RLock()
	if s.selection.DoctorID == nil {
		s.mu.RUnlock()
		return domain.NewValidationError("сначала выберите врача")
	}
	doctorID := *s.selection.DoctorID
	gen := s.feedGen
	s.mu.RUnlock()

	now := time.Now().In(s.cfg.Location())
	from, to := utils.BookingWindow(now, s.cfg.Booking.WindowDays)

	s.logger.Info("availability.load.started", out.LogFields{
		"doctorId": doctorID,
		"from":     from,
		"to":       to,
	})

	// Сначала кэш, если он включен
	if s.cache != nil && s.cfg.Cache.Enabled {
		if slots, exists := s.cache.GetFeed(ctx, doctorID, from, to); exists {
			s.logger.Debug("availability.load.cache.hit", out.LogFields{
				"doctorId":   doctorID,
				"slotsCount": len(slots),
			})
			s.commitFeed(gen, &scheduleFeed{
				doctorID: doctorID,
				from:     from,
				to:       to,
				index:    indexSlots(slots),
			})
			return nil
		}
	}

	slots, err := s.clinicApi.ListSchedules(ctx, caller, doctorID, from, to)
	if err != nil {
		s.logger.Error("availability.load.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		// Лента показывается пустой, текст ошибки сохраняем для отображения
		s.commitFeed(gen, &scheduleFeed{
			doctorID: doctorID,
			from:     from,
			to:       to,
			index:    map[string]map[domain.SessionLabel]domain.ScheduleSlot{},
			fetchErr: err.Error(),
		})
		return &domain.TransientFetchError{Op: "availability.load", Err: err}
	}

	if s.cache != nil && s.cfg.Cache.Enabled {
		s.cache.StoreFeed(ctx, doctorID, from, to, slots)
	}

	committed := s.commitFeed(gen, &scheduleFeed{
		doctorID: doctorID,
		from:     from,
		to:       to,
		index:    indexSlots(slots),
	})

	s.logger.Info("availability.load.finished", out.LogFields{
		"doctorId":   doctorID,
		"slotsCount": len(slots),
		"committed":  committed,
	})

	return nil
}

// commitFeed записывает ленту только если поколение не поменялось с момента
// старта загрузки. Опоздавший ответ по прошлому врачу молча выбрасывается.
func (s *BookingService) commitFeed(gen uint64, feed *scheduleFeed) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.feedGen {
		s.logger.Debug("availability.load.stale_discarded", out.LogFields{
			"doctorId": feed.doctorID,
		})
		return false
	}

	s.feed = feed
	return true
}

// ResolveAvailability - чистая проекция по загруженной ленте: для любой даты
// ровно три сессии в фиксированном порядке утро, день, вечер. Сессии без
// слота в ленте отдаются как недоступные.
func (s *BookingService) ResolveAvailability(date time.Time) []domain.SessionAvailability {
	s.mu.RLock()
	defer s.mu.RUnlock()

	labels := domain.SessionLabels()
	availabilities := make([]domain.SessionAvailability, 0, len(labels))

	var sessions map[domain.SessionLabel]domain.ScheduleSlot
	if s.feed != nil && s.selection.DoctorID != nil && s.feed.doctorID == *s.selection.DoctorID {
		sessions = s.feed.index[dateKey(date)]
	}

	for _, label := range labels {
		if slot, ok := sessions[label]; ok {
			availabilities = append(availabilities, domain.NewSessionAvailability(label, &slot))
		} else {
			availabilities = append(availabilities, domain.NewSessionAvailability(label, nil))
		}
	}

	return availabilities
}

// AvailabilityError возвращает сохраненный текст последней ошибки загрузки ленты.
func (s *BookingService) AvailabilityError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.feed == nil {
		return ""
	}
	return s.feed.fetchErr
}

// InvalidateFeed сбрасывает кэш ленты врача. Дергается слушателем событий о
// записях: занятость на сервере поменял другой клиент.
func (s *BookingService) InvalidateFeed(ctx context.Context, doctorID uuid.UUID) {
	if s.cache != nil && s.cfg.Cache.Enabled {
		s.cache.InvalidateFeed(ctx, doctorID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.feed != nil && s.feed.doctorID == doctorID {
		s.feed = nil
		s.feedGen++
	}

	s.logger.Debug("availability.feed.invalidated", out.LogFields{
		"doctorId": doctorID,
	})
}

// Progress - табло прогресса приема: занятость сессий врача на конкретную дату.
func (s *BookingService) Progress(ctx context.Context, caller domain.LineUserID, doctorID uuid.UUID, date time.Time) ([]domain.ScheduleProgress, error) {
	from := utils.StartCurrentDay(date)
	to := utils.StartNextDay(date).Add(-time.Second)

	slots, err := s.clinicApi.ListSchedules(ctx, caller, doctorID, from, to)
	if err != nil {
		s.logger.Error("progress.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, &domain.TransientFetchError{Op: "progress.fetch", Err: fmt.Errorf("progress.fetch_failed: %w", err)}
	}

	index := indexSlots(slots)
	sessions := index[dateKey(date)]

	progresses := make([]domain.ScheduleProgress, 0, len(sessions))
	for _, label := range domain.SessionLabels() {
		if slot, ok := sessions[label]; ok {
			progresses = append(progresses, domain.NewScheduleProgress(slot))
		}
	}

	return progresses, nil
}
