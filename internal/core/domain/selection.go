package domain

import (
	"time"

	"github.com/google/uuid"
)

// Selection - незавершенная запись: строго упорядоченный выбор
// врач -> дата -> сессия -> пациент. Поле n может быть заполнено только
// если заполнены все поля до него. Это гарантируется каскадными сбросами:
// установка поля n всегда очищает поля после n, валидация задним числом не нужна -
// после смены даты идентификатор слота предыдущей даты не значит уже ничего.
type Selection struct {
	DoctorID   *uuid.UUID   `json:"doctorId"`
	Date       *time.Time   `json:"date"`
	Session    SessionLabel `json:"session"`
	ScheduleID *uuid.UUID   `json:"scheduleId"`
	PatientID  *uuid.UUID   `json:"patientId"`
}

// WithDoctor всегда допустим и сбрасывает все остальное,
// даже если врач тот же самый: занятость могла измениться.
func (s Selection) WithDoctor(doctorID uuid.UUID) Selection {
	return Selection{DoctorID: &doctorID}
}

func (s Selection) WithDate(date time.Time) (Selection, error) {
	if s.DoctorID == nil {
		return s, NewValidationError("сначала выберите врача")
	}

	return Selection{DoctorID: s.DoctorID, Date: &date}, nil
}

func (s Selection) WithSession(label SessionLabel, scheduleID uuid.UUID) (Selection, error) {
	if s.DoctorID == nil || s.Date == nil {
		return s, NewValidationError("сначала выберите врача и дату")
	}
	if !label.Valid() {
		return s, NewValidationError("неизвестная сессия: " + string(label))
	}

	return Selection{
		DoctorID:   s.DoctorID,
		Date:       s.Date,
		Session:    label,
		ScheduleID: &scheduleID,
	}, nil
}

func (s Selection) WithPatient(patientID uuid.UUID) (Selection, error) {
	if s.ScheduleID == nil {
		return s, NewValidationError("сначала выберите сессию")
	}

	return Selection{
		DoctorID:   s.DoctorID,
		Date:       s.Date,
		Session:    s.Session,
		ScheduleID: s.ScheduleID,
		PatientID:  &patientID,
	}, nil
}

// Complete - все четыре шага пройдены, можно подтверждать запись.
func (s Selection) Complete() bool {
	return s.DoctorID != nil && s.Date != nil && s.ScheduleID != nil && s.PatientID != nil
}
