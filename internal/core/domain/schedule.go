package domain

import (
	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/json_types"
)

type SessionLabel string

const (
	SessionMorning   SessionLabel = "MORNING"
	SessionAfternoon SessionLabel = "AFTERNOON"
	SessionEvening   SessionLabel = "EVENING"
)

// SessionLabels - фиксированный порядок сессий дня, всегда ровно три
func SessionLabels() [3]SessionLabel {
	return [3]SessionLabel{SessionMorning, SessionAfternoon, SessionEvening}
}

func (s SessionLabel) Valid() bool {
	return s == SessionMorning || s == SessionAfternoon || s == SessionEvening
}

func (s SessionLabel) DisplayName() string {
	switch s {
	case SessionMorning:
		return "上午"
	case SessionAfternoon:
		return "下午"
	case SessionEvening:
		return "晚上"
	}
	return string(s)
}

// ScheduleSlot - атомарная единица записи: один врач, один день, одна сессия.
// Occupancy меняется только на стороне сервера, клиент его перечитывает, а не мутирует.
type ScheduleSlot struct {
	ID                  uuid.UUID       `json:"id"`
	DoctorID            uuid.UUID       `json:"doctorId"`
	DoctorName          string          `json:"doctorName"`
	ClinicID            uuid.UUID       `json:"clinicId"`
	ClinicName          string          `json:"clinicName"`
	Date                json_types.Date `json:"date"`
	Session             SessionLabel    `json:"timeSlot"`
	CurrentAppointments int             `json:"currentAppointments"`
	Capacity            int             `json:"capacity"`
	IsDeleted           bool            `json:"isDeleted"`
}

func (s ScheduleSlot) IsBookable() bool {
	return !s.IsDeleted && s.CurrentAppointments < s.Capacity
}

// SessionAvailability - производная, не хранимая сущность: состояние одной сессии
// выбранного дня. Пересчитывается при каждой смене врача или даты.
type SessionAvailability struct {
	Session             SessionLabel `json:"session"`
	DisplayName         string       `json:"displayName"`
	ScheduleID          *uuid.UUID   `json:"scheduleId"`
	Available           bool         `json:"available"`
	CurrentAppointments int          `json:"currentAppointments"`
	Capacity            int          `json:"capacity"`
}

func NewSessionAvailability(label SessionLabel, slot *ScheduleSlot) SessionAvailability {
	availability := SessionAvailability{
		Session:     label,
		DisplayName: label.DisplayName(),
	}

	if slot == nil {
		return availability
	}

	scheduleID := slot.ID
	availability.ScheduleID = &scheduleID
	availability.Available = slot.IsBookable()
	availability.CurrentAppointments = slot.CurrentAppointments
	availability.Capacity = slot.Capacity

	return availability
}
