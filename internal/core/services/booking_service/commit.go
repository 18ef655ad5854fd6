package booking_service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
)

// Commit подтверждает завершенный выбор одним create-запросом.
// Клиентских блокировок нет: последняя загруженная занятость - только подсказка
// для интерфейса, переполнение атомарно отсекает сервер. При отказе выбор
// не трогается, пользователь может выбрать другую сессию и отправить снова.
func (s *BookingService) Commit(ctx context.Context, caller domain.LineUserID) (*domain.Appointment, error) {
	s.mu.RLock()
	selection := s.selection
	clinicID, ok := s.commitClinicLocked()
	s.mu.RUnlock()

	if !selection.Complete() {
		// Локальная валидация, до сети не доходим
		return nil, domain.NewValidationError("заполните все шаги записи")
	}
	if !ok {
		return nil, domain.NewValidationError("расписание обновилось, выберите сессию заново")
	}

	req := domain.AppointmentRequest{
		ScheduleID: *selection.ScheduleID,
		PatientID:  *selection.PatientID,
		DoctorID:   *selection.DoctorID,
		// Клиника выводится из выбранного слота, пользователь ее не выбирает
		ClinicID: clinicID,
	}

	s.logger.Info("booking.commit.started", out.LogFields{
		"scheduleId": req.ScheduleID,
		"patientId":  req.PatientID,
		"doctorId":   req.DoctorID,
	})

	appointment, err := s.clinicApi.CreateAppointment(ctx, caller, req)
	if err != nil {
		s.logger.Error("booking.commit.rejected", out.LogFields{
			"scheduleId": req.ScheduleID,
			"error":      err.Error(),
		})
		return nil, &domain.CommitRejected{Message: serverMessage(err), Err: err}
	}

	// Выбор специально остается как есть: экран подтверждения показывает его,
	// сброс - отдельное явное действие пользователя
	s.logger.Info("booking.commit.finished", out.LogFields{
		"appointmentId": appointment.ID,
		"scheduleId":    appointment.ScheduleID,
	})

	return appointment, nil
}

// commitClinicLocked достает идентификатор клиники из слота текущего выбора.
func (s *BookingService) commitClinicLocked() (uuid.UUID, bool) {
	if s.selection.Date == nil || s.selection.ScheduleID == nil {
		return uuid.Nil, false
	}

	slot, found := s.lookupSlotLocked(*s.selection.Date, s.selection.Session)
	if !found || slot.ID != *s.selection.ScheduleID {
		return uuid.Nil, false
	}

	return slot.ClinicID, true
}

// serverMessage достает текст сервера из ошибки удаленного вызова, если он есть.
func serverMessage(err error) string {
	var remote *domain.RemoteCallError
	if errors.As(err, &remote) {
		return remote.Message
	}
	return ""
}
