package out

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
)

// ClinicApiPort - граница с удаленным API клиники. Идентификатор LINE-пользователя
// передается явным аргументом в каждый вызов, у адаптера нет скрытого текущего пользователя.
type ClinicApiPort interface {
	// Справочник врачей
	GetDoctors(ctx context.Context, caller domain.LineUserID) ([]domain.Doctor, error)

	// Лента расписания врача одним запросом на все окно, не по дням
	ListSchedules(ctx context.Context, caller domain.LineUserID, doctorID uuid.UUID, from, to time.Time) ([]domain.ScheduleSlot, error)

	// Операции над записями
	CreateAppointment(ctx context.Context, caller domain.LineUserID, req domain.AppointmentRequest) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, caller domain.LineUserID, appointmentID uuid.UUID, req domain.AppointmentRequest) (*domain.Appointment, error)
	DeleteAppointment(ctx context.Context, caller domain.LineUserID, appointmentID uuid.UUID) error
	SearchAppointments(ctx context.Context, caller domain.LineUserID, query domain.AppointmentQuery) ([]domain.Appointment, error)
}
