package booking_service

import (
	"context"
	"time"

	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/in"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
	"github.com/suchimauz/clinic-booking-service/internal/utils"
)

// rebookPlan - решение, как выполнять перенос записи.
type rebookPlan int

const (
	planNothing rebookPlan = iota
	planUpdate
	planRecreate
)

// decideRebookPlan сравнивает существующую запись с новым выбором.
// Смена пациента, врача или даты означает, что запись по сути принадлежит
// другому семейству слотов - строку на сервере туда не перенести, только
// пересоздать. Смена одной лишь сессии - это подмена слота в той же строке,
// ее сервер умеет делать update-ом. Границу между update и recreate держим
// в одном месте: если контракт API расширится, правка будет здесь.
func decideRebookPlan(existing domain.Appointment, next domain.Selection) rebookPlan {
	patientChanged := *next.PatientID != existing.PatientID
	doctorChanged := *next.DoctorID != existing.DoctorID
	dateChanged := !utils.SameDay(*next.Date, existing.Date.Date)

	if patientChanged || doctorChanged || dateChanged {
		return planRecreate
	}

	sessionChanged := next.Session != existing.Session || *next.ScheduleID != existing.ScheduleID
	if sessionChanged {
		return planUpdate
	}

	return planNothing
}

// Rebook переносит существующую запись на новый выбор. На любом успешном пути
// список записей пациента перечитывается заново: при пересоздании меняется
// идентификатор, и локальный список патчить бессмысленно.
func (s *BookingService) Rebook(
	ctx context.Context,
	caller domain.LineUserID,
	existing domain.Appointment,
	next domain.Selection,
	query domain.AppointmentQuery,
) (*in.RebookOutcome, error) {
	if !next.Complete() {
		return nil, domain.NewValidationError("заполните все шаги записи")
	}

	now := time.Now().In(s.cfg.Location())
	if utils.EditCutoffPassed(now, existing.Date.Date, s.cfg.Booking.EditCutoffHour) {
		return nil, domain.NewValidationError("запись на завтра уже нельзя изменить")
	}

	plan := decideRebookPlan(existing, next)
	if plan == planNothing {
		// Ничего не поменялось, в сеть не ходим
		return nil, domain.NewValidationError("нет изменений для сохранения")
	}

	req := domain.AppointmentRequest{
		ScheduleID: *next.ScheduleID,
		PatientID:  *next.PatientID,
		DoctorID:   *next.DoctorID,
		// Клиника исходной записи, как и делает существующий клиент
		ClinicID: existing.ClinicID,
	}

	outcome := &in.RebookOutcome{}

	switch plan {
	case planRecreate:
		appointment, err := s.recreateAppointment(ctx, caller, existing, req)
		if err != nil {
			return nil, err
		}
		outcome.Appointment = appointment
		outcome.Recreated = true

	case planUpdate:
		s.logger.Info("rebook.update.started", out.LogFields{
			"appointmentId": existing.ID,
			"scheduleId":    req.ScheduleID,
		})

		appointment, err := s.clinicApi.UpdateAppointment(ctx, caller, existing.ID, req)
		if err != nil {
			s.logger.Error("rebook.update.rejected", out.LogFields{
				"appointmentId": existing.ID,
				"error":         err.Error(),
			})
			return nil, &domain.CommitRejected{Message: serverMessage(err), Err: err}
		}
		outcome.Appointment = appointment
	}

	// Обязательная перечитка списка. Перенос уже состоялся, поэтому неудача
	// перечитки не отменяет результат: отдаем пустой список и даем повторить.
	appointments, err := s.clinicApi.SearchAppointments(ctx, caller, query)
	if err != nil {
		s.logger.Warn("rebook.refetch_failed", out.LogFields{
			"idNumber": query.IDNumber,
			"error":    err.Error(),
		})
		return outcome, nil
	}
	outcome.Appointments = appointments

	return outcome, nil
}

// recreateAppointment - двухфазный перенос без журнала транзакций: delete строго
// до create, вызовы не параллелятся, иначе "delete прошел, create упал" не
// отличить от "упали оба". Откатить зависшее состояние нечем, поэтому оно
// отдается наружу как PartialFailure и громко логируется для ручного разбора.
func (s *BookingService) recreateAppointment(
	ctx context.Context,
	caller domain.LineUserID,
	existing domain.Appointment,
	req domain.AppointmentRequest,
) (*domain.Appointment, error) {
	s.logger.Info("rebook.recreate.started", out.LogFields{
		"appointmentId": existing.ID,
		"scheduleId":    req.ScheduleID,
	})

	if err := s.clinicApi.DeleteAppointment(ctx, caller, existing.ID); err != nil {
		// Delete не прошел - старая запись считается целой, create не начинаем
		s.logger.Error("rebook.recreate.delete_failed", out.LogFields{
			"appointmentId": existing.ID,
			"error":         err.Error(),
		})
		return nil, &domain.CommitRejected{Message: serverMessage(err), Err: err}
	}

	appointment, err := s.clinicApi.CreateAppointment(ctx, caller, req)
	if err != nil {
		s.logger.Error("rebook.recreate.partial_failure", out.LogFields{
			"oldAppointmentId": existing.ID,
			"scheduleId":       req.ScheduleID,
			"patientId":        req.PatientID,
			"error":            err.Error(),
		})
		return nil, &domain.PartialFailure{OldAppointmentID: existing.ID, Err: err}
	}

	s.logger.Info("rebook.recreate.finished", out.LogFields{
		"oldAppointmentId": existing.ID,
		"newAppointmentId": appointment.ID,
	})

	return appointment, nil
}
