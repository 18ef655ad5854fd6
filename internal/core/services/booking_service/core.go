package booking_service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/config"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
	"github.com/suchimauz/clinic-booking-service/internal/utils"
)

// BookingService - ядро процесса записи: лента доступности, пошаговый выбор,
// подтверждение и перенос. Состояние выбора принадлежит одному активному
// процессу записи, вторых параллельных форм в клиенте не бывает.
type BookingService struct {
	clinicApi out.ClinicApiPort
	cache     out.CachePort
	logger    out.LoggerPort
	cfg       *config.Config

	mu        sync.RWMutex
	selection domain.Selection
	feed      *scheduleFeed
	// Поколение ленты. Увеличивается при каждой смене врача, чтобы опоздавший
	// ответ по прошлому врачу не затер ленту текущего.
	feedGen uint64
}

// scheduleFeed - загруженная лента расписания одного врача на окно бронирования,
// проиндексированная по (дата, сессия). Проекция по дням дальше чисто синхронная.
type scheduleFeed struct {
	doctorID uuid.UUID
	from     time.Time
	to       time.Time
	index    map[string]map[domain.SessionLabel]domain.ScheduleSlot
	// Текст последней ошибки загрузки, лента при этом пустая
	fetchErr string
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func indexSlots(slots []domain.ScheduleSlot) map[string]map[domain.SessionLabel]domain.ScheduleSlot {
	index := make(map[string]map[domain.SessionLabel]domain.ScheduleSlot)
	for _, slot := range slots {
		key := dateKey(slot.Date.Date)
		if index[key] == nil {
			index[key] = make(map[domain.SessionLabel]domain.ScheduleSlot)
		}
		index[key][slot.Session] = slot
	}
	return index
}

func NewBookingService(
	clinicApi out.ClinicApiPort,
	cache out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *BookingService {
	return &BookingService{
		clinicApi: clinicApi,
		cache:     cache,
		cfg:       cfg,
		logger:    logger.WithModule("BookingService"),
	}
}

// SetDoctor всегда допустим. Сбрасывает дату, сессию и пациента, даже если врач
// не поменялся, и обесценивает летящий сейчас ответ по прошлой ленте.
func (s *BookingService) SetDoctor(doctorID uuid.UUID) (domain.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = s.selection.WithDoctor(doctorID)
	s.feed = nil
	s.feedGen++

	s.logger.Debug("selection.doctor.set", out.LogFields{
		"doctorId": doctorID,
	})

	return s.selection, s.selection.Complete()
}

func (s *BookingService) SetDate(date time.Time) (domain.Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Выходные не предлагаются к выбору - политика записи, а не протокола
	if utils.IsWeekend(date) {
		return s.selection, s.selection.Complete(), domain.NewValidationError("запись в выходные не ведется")
	}

	next, err := s.selection.WithDate(date)
	if err != nil {
		return s.selection, s.selection.Complete(), err
	}

	s.selection = next
	return s.selection, s.selection.Complete(), nil
}

// SetSession дополнительно сверяет выбор с загруженной лентой: сессия должна
// существовать, быть свободной и идентификатор слота должен совпадать с текущим.
func (s *BookingService) SetSession(label domain.SessionLabel, scheduleID uuid.UUID) (domain.Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selection.DoctorID == nil || s.selection.Date == nil {
		return s.selection, s.selection.Complete(), domain.NewValidationError("сначала выберите врача и дату")
	}

	slot, ok := s.lookupSlotLocked(*s.selection.Date, label)
	if !ok || !slot.IsBookable() {
		return s.selection, s.selection.Complete(), domain.NewValidationError("сессия недоступна для записи")
	}
	if slot.ID != scheduleID {
		// Выбор сделан по устаревшей ленте
		return s.selection, s.selection.Complete(), domain.NewValidationError("расписание обновилось, выберите сессию заново")
	}

	next, err := s.selection.WithSession(label, scheduleID)
	if err != nil {
		return s.selection, s.selection.Complete(), err
	}

	s.selection = next
	return s.selection, s.selection.Complete(), nil
}

func (s *BookingService) SetPatient(patientID uuid.UUID) (domain.Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.selection.WithPatient(patientID)
	if err != nil {
		return s.selection, s.selection.Complete(), err
	}

	s.selection = next
	return s.selection, s.selection.Complete(), nil
}

func (s *BookingService) CurrentSelection() (domain.Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selection, s.selection.Complete()
}

// Reset - явное действие пользователя. После удачного подтверждения выбор
// специально не сбрасывается, чтобы экран подтверждения мог его показать.
func (s *BookingService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = domain.Selection{}
	s.feed = nil
	s.feedGen++
}

// BookingDates возвращает даты, доступные для выбора: будни окна бронирования.
func (s *BookingService) BookingDates() []time.Time {
	now := time.Now().In(s.cfg.Location())
	return utils.BookingWindowDates(now, s.cfg.Booking.WindowDays)
}

func (s *BookingService) lookupSlotLocked(date time.Time, label domain.SessionLabel) (domain.ScheduleSlot, bool) {
	if s.feed == nil || s.selection.DoctorID == nil || s.feed.doctorID != *s.selection.DoctorID {
		return domain.ScheduleSlot{}, false
	}

	sessions, ok := s.feed.index[dateKey(date)]
	if !ok {
		return domain.ScheduleSlot{}, false
	}

	slot, ok := sessions[label]
	return slot, ok
}
