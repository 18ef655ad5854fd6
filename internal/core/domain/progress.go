package domain

import "github.com/google/uuid"

type ProgressStatus string

const (
	ProgressStatusWaiting    ProgressStatus = "waiting"
	ProgressStatusInProgress ProgressStatus = "in-progress"
	ProgressStatusCompleted  ProgressStatus = "completed"
)

// ScheduleProgress - ход приема по одной сессии для табло прогресса.
type ScheduleProgress struct {
	ScheduleID    uuid.UUID      `json:"scheduleId"`
	DoctorName    string         `json:"doctorName"`
	ClinicName    string         `json:"clinicName"`
	Session       SessionLabel   `json:"timeSlot"`
	CurrentNumber int            `json:"currentNumber"`
	TotalCapacity int            `json:"totalCapacity"`
	Progress      int            `json:"progress"`
	Status        ProgressStatus `json:"status"`
}

func NewScheduleProgress(slot ScheduleSlot) ScheduleProgress {
	progress := 0
	if slot.Capacity > 0 {
		progress = slot.CurrentAppointments * 100 / slot.Capacity
	}

	status := ProgressStatusWaiting
	if slot.CurrentAppointments > 0 {
		if slot.CurrentAppointments >= slot.Capacity {
			status = ProgressStatusCompleted
		} else {
			status = ProgressStatusInProgress
		}
	}

	return ScheduleProgress{
		ScheduleID:    slot.ID,
		DoctorName:    slot.DoctorName,
		ClinicName:    slot.ClinicName,
		Session:       slot.Session,
		CurrentNumber: slot.CurrentAppointments,
		TotalCapacity: slot.Capacity,
		Progress:      progress,
		Status:        status,
	}
}
