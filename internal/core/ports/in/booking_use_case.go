package in

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
)

// RebookOutcome - результат переноса записи. Appointments - свежий список записей
// пациента, перечитанный после успеха: при пересоздании меняется идентификатор,
// поэтому локальный список не патчится, а запрашивается заново.
type RebookOutcome struct {
	Appointment  *domain.Appointment  `json:"appointment"`
	Appointments []domain.Appointment `json:"appointments"`
	Recreated    bool                 `json:"recreated"`
}

type BookingUseCase interface {
	// Загрузка ленты расписания текущего врача на окно бронирования
	LoadAvailability(ctx context.Context, caller domain.LineUserID) error

	// Синхронная проекция по загруженной ленте: всегда ровно три сессии
	ResolveAvailability(date time.Time) []domain.SessionAvailability

	// Даты, доступные для выбора в окне бронирования
	BookingDates() []time.Time

	// Шаги выбора, каждый возвращает новое состояние и признак завершенности
	SetDoctor(doctorID uuid.UUID) (domain.Selection, bool)
	SetDate(date time.Time) (domain.Selection, bool, error)
	SetSession(label domain.SessionLabel, scheduleID uuid.UUID) (domain.Selection, bool, error)
	SetPatient(patientID uuid.UUID) (domain.Selection, bool, error)
	CurrentSelection() (domain.Selection, bool)
	Reset()

	// Подтверждение записи по завершенному выбору
	Commit(ctx context.Context, caller domain.LineUserID) (*domain.Appointment, error)

	// Перенос существующей записи: update или delete+create в зависимости от изменений
	Rebook(ctx context.Context, caller domain.LineUserID, existing domain.Appointment, next domain.Selection, query domain.AppointmentQuery) (*RebookOutcome, error)

	// Отмена записи
	Cancel(ctx context.Context, caller domain.LineUserID, appointment domain.Appointment) error

	// Список записей пациента
	SearchAppointments(ctx context.Context, caller domain.LineUserID, query domain.AppointmentQuery) ([]domain.Appointment, error)

	// Табло прогресса приема по врачу на дату
	Progress(ctx context.Context, caller domain.LineUserID, doctorID uuid.UUID, date time.Time) ([]domain.ScheduleProgress, error)

	// Справочник врачей для интерфейса выбора
	Doctors(ctx context.Context, caller domain.LineUserID) ([]domain.Doctor, error)

	// Сброс кэшированной ленты врача, дергается слушателем событий
	InvalidateFeed(ctx context.Context, doctorID uuid.UUID)
}
