package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLabels_FixedOrder(t *testing.T) {
	labels := SessionLabels()
	assert.Equal(t, [3]SessionLabel{SessionMorning, SessionAfternoon, SessionEvening}, labels)
}

func TestScheduleSlot_IsBookable(t *testing.T) {
	tests := []struct {
		name string
		slot ScheduleSlot
		want bool
	}{
		{"свободные места", ScheduleSlot{CurrentAppointments: 2, Capacity: 3}, true},
		{"заполнен целиком", ScheduleSlot{CurrentAppointments: 3, Capacity: 3}, false},
		{"переполнен", ScheduleSlot{CurrentAppointments: 4, Capacity: 3}, false},
		{"удален", ScheduleSlot{CurrentAppointments: 0, Capacity: 3, IsDeleted: true}, false},
		{"нулевая вместимость", ScheduleSlot{CurrentAppointments: 0, Capacity: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.IsBookable())
		})
	}
}

func TestNewSessionAvailability(t *testing.T) {
	slot := ScheduleSlot{
		ID:                  uuid.New(),
		Session:             SessionAfternoon,
		CurrentAppointments: 1,
		Capacity:            3,
	}

	availability := NewSessionAvailability(SessionAfternoon, &slot)
	assert.True(t, availability.Available)
	assert.Equal(t, "下午", availability.DisplayName)
	require.NotNil(t, availability.ScheduleID)
	assert.Equal(t, slot.ID, *availability.ScheduleID)

	// Сессия без слота в ленте
	empty := NewSessionAvailability(SessionEvening, nil)
	assert.False(t, empty.Available)
	assert.Nil(t, empty.ScheduleID)
	assert.Equal(t, "晚上", empty.DisplayName)
}

func TestNormalizeAppointmentStatus(t *testing.T) {
	assert.Equal(t, AppointmentStatusConfirmed, NormalizeAppointmentStatus("CONFIRMED"))
	assert.Equal(t, AppointmentStatusConfirmed, NormalizeAppointmentStatus("active"))
	assert.Equal(t, AppointmentStatusPending, NormalizeAppointmentStatus("waiting"))
	assert.Equal(t, AppointmentStatusCancelled, NormalizeAppointmentStatus("canceled"))
	assert.Equal(t, AppointmentStatusCancelled, NormalizeAppointmentStatus("deleted"))
	// Неизвестный статус трактуется как ожидание
	assert.Equal(t, AppointmentStatusPending, NormalizeAppointmentStatus("who-knows"))
}

func TestNewScheduleProgress(t *testing.T) {
	waiting := NewScheduleProgress(ScheduleSlot{CurrentAppointments: 0, Capacity: 4})
	assert.Equal(t, ProgressStatusWaiting, waiting.Status)
	assert.Equal(t, 0, waiting.Progress)

	inProgress := NewScheduleProgress(ScheduleSlot{CurrentAppointments: 1, Capacity: 4})
	assert.Equal(t, ProgressStatusInProgress, inProgress.Status)
	assert.Equal(t, 25, inProgress.Progress)

	completed := NewScheduleProgress(ScheduleSlot{CurrentAppointments: 4, Capacity: 4})
	assert.Equal(t, ProgressStatusCompleted, completed.Status)
	assert.Equal(t, 100, completed.Progress)
}
