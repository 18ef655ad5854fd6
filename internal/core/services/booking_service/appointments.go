package booking_service

import (
	"context"
	"fmt"
	"time"

	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
	"github.com/suchimauz/clinic-booking-service/internal/utils"
)

// Cancel отменяет запись. Запись на завтра после часа отсечки не трогаем.
func (s *BookingService) Cancel(ctx context.Context, caller domain.LineUserID, appointment domain.Appointment) error {
	now := time.Now().In(s.cfg.Location())
	if utils.EditCutoffPassed(now, appointment.Date.Date, s.cfg.Booking.EditCutoffHour) {
		return domain.NewValidationError("запись на завтра уже нельзя отменить")
	}

	if err := s.clinicApi.DeleteAppointment(ctx, caller, appointment.ID); err != nil {
		s.logger.Error("appointment.cancel.failed", out.LogFields{
			"appointmentId": appointment.ID,
			"error":         err.Error(),
		})
		return &domain.CommitRejected{Message: serverMessage(err), Err: err}
	}

	s.logger.Info("appointment.cancel.finished", out.LogFields{
		"appointmentId": appointment.ID,
	})

	return nil
}

func (s *BookingService) SearchAppointments(ctx context.Context, caller domain.LineUserID, query domain.AppointmentQuery) ([]domain.Appointment, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 50
	}

	appointments, err := s.clinicApi.SearchAppointments(ctx, caller, query)
	if err != nil {
		s.logger.Error("appointment.search.failed", out.LogFields{
			"idNumber": query.IDNumber,
			"error":    err.Error(),
		})
		return nil, &domain.TransientFetchError{Op: "appointment.search", Err: fmt.Errorf("appointment.search.failed: %w", err)}
	}

	return appointments, nil
}

func (s *BookingService) Doctors(ctx context.Context, caller domain.LineUserID) ([]domain.Doctor, error) {
	doctors, err := s.clinicApi.GetDoctors(ctx, caller)
	if err != nil {
		s.logger.Error("doctors.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, &domain.TransientFetchError{Op: "doctors.fetch", Err: fmt.Errorf("doctors.fetch_failed: %w", err)}
	}

	return doctors, nil
}
