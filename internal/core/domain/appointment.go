package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/json_types"
)

type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// NormalizeAppointmentStatus приводит статусы API к трем локальным значениям.
// API исторически отдает разные строки для одного и того же состояния.
func NormalizeAppointmentStatus(raw string) AppointmentStatus {
	switch strings.ToLower(raw) {
	case "confirmed", "active":
		return AppointmentStatusConfirmed
	case "pending", "waiting":
		return AppointmentStatusPending
	case "cancelled", "canceled", "deleted":
		return AppointmentStatusCancelled
	}
	return AppointmentStatusPending
}

// Appointment - подтвержденная запись: пациент, привязанный к слоту расписания.
type Appointment struct {
	ID         uuid.UUID                  `json:"id"`
	ScheduleID uuid.UUID                  `json:"scheduleId"`
	PatientID  uuid.UUID                  `json:"patientId"`
	DoctorID   uuid.UUID                  `json:"doctorId"`
	ClinicID   uuid.UUID                  `json:"clinicId"`
	Date       json_types.Date            `json:"appointmentDate"`
	Session    SessionLabel               `json:"timeSlot"`
	Status     AppointmentStatus          `json:"status"`
	CreatedAt  json_types.DateTimeOrEmpty `json:"createdAt"`
}

// AppointmentRequest - тело create/update запроса.
// ClinicID выводится из слота расписания, пользователь его не выбирает.
type AppointmentRequest struct {
	ScheduleID uuid.UUID `json:"scheduleId"`
	PatientID  uuid.UUID `json:"patientId"`
	DoctorID   uuid.UUID `json:"doctorId"`
	ClinicID   uuid.UUID `json:"clinicId"`
}

// AppointmentQuery - поиск записей пациента по номеру документа и диапазону дат.
type AppointmentQuery struct {
	IDNumber  string
	StartDate json_types.Date
	EndDate   json_types.Date
	Page      int
	Limit     int
}
