package booking_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/utils"
)

// completeSelection проводит выбор через все четыре шага и возвращает слот,
// на который он указывает.
func completeSelection(t *testing.T, svc *BookingService, fake *fakeClinicApi) domain.ScheduleSlot {
	t.Helper()

	doctorID := uuid.New()
	date := svc.BookingDates()[0]
	slot := newSlot(doctorID, date, domain.SessionAfternoon, 1, 3)
	fake.schedulesByDoctor[doctorID] = []domain.ScheduleSlot{slot}

	svc.SetDoctor(doctorID)
	require.NoError(t, svc.LoadAvailability(context.Background(), testCaller))

	_, _, err := svc.SetDate(date)
	require.NoError(t, err)

	_, _, err = svc.SetSession(domain.SessionAfternoon, slot.ID)
	require.NoError(t, err)

	_, complete, err := svc.SetPatient(uuid.New())
	require.NoError(t, err)
	require.True(t, complete)

	return slot
}

func nextWeekendDay(from time.Time) time.Time {
	day := from
	for !utils.IsWeekend(day) {
		day = utils.StartNextDay(day)
	}
	return day
}

func TestSetDoctor_ResetsDownstreamSteps(t *testing.T) {
	svc, fake := newTestService(t)

	slot := completeSelection(t, svc, fake)

	// Повторный выбор того же врача тоже сбрасывает все шаги ниже:
	// занятость могла измениться
	selection, complete := svc.SetDoctor(slot.DoctorID)

	assert.False(t, complete)
	require.NotNil(t, selection.DoctorID)
	assert.Equal(t, slot.DoctorID, *selection.DoctorID)
	assert.Nil(t, selection.Date)
	assert.Nil(t, selection.ScheduleID)
	assert.Nil(t, selection.PatientID)
}

func TestSetDate_RejectsWeekend(t *testing.T) {
	svc, _ := newTestService(t)

	svc.SetDoctor(uuid.New())

	weekend := nextWeekendDay(utils.StartNextDay(time.Now()))
	_, _, err := svc.SetDate(weekend)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSetDate_WithoutDoctor(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.SetDate(svc.BookingDates()[0])

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSetSession_UnavailableSession(t *testing.T) {
	svc, fake := newTestService(t)

	doctorID := uuid.New()
	date := svc.BookingDates()[0]
	full := newSlot(doctorID, date, domain.SessionMorning, 3, 3)
	fake.schedulesByDoctor[doctorID] = []domain.ScheduleSlot{full}

	svc.SetDoctor(doctorID)
	require.NoError(t, svc.LoadAvailability(context.Background(), testCaller))
	_, _, err := svc.SetDate(date)
	require.NoError(t, err)

	// Заполненная сессия
	_, _, err = svc.SetSession(domain.SessionMorning, full.ID)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Сессия без слота в ленте
	_, _, err = svc.SetSession(domain.SessionEvening, uuid.New())
	require.ErrorAs(t, err, &validationErr)
}

func TestSetSession_StaleScheduleID(t *testing.T) {
	svc, fake := newTestService(t)

	doctorID := uuid.New()
	date := svc.BookingDates()[0]
	slot := newSlot(doctorID, date, domain.SessionAfternoon, 0, 3)
	fake.schedulesByDoctor[doctorID] = []domain.ScheduleSlot{slot}

	svc.SetDoctor(doctorID)
	require.NoError(t, svc.LoadAvailability(context.Background(), testCaller))
	_, _, err := svc.SetDate(date)
	require.NoError(t, err)

	// Идентификатор из устаревшей ленты не совпадает с текущим
	_, _, err = svc.SetSession(domain.SessionAfternoon, uuid.New())

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestReset_ClearsSelectionAndFeed(t *testing.T) {
	svc, fake := newTestService(t)

	slot := completeSelection(t, svc, fake)

	svc.Reset()

	selection, complete := svc.CurrentSelection()
	assert.False(t, complete)
	assert.Nil(t, selection.DoctorID)

	availabilities := svc.ResolveAvailability(slot.Date.Date)
	for _, availability := range availabilities {
		assert.False(t, availability.Available)
	}
}

func TestBookingDates_WeekdaysOnly(t *testing.T) {
	svc, _ := newTestService(t)

	dates := svc.BookingDates()
	require.NotEmpty(t, dates)

	tomorrow := utils.StartNextDay(time.Now().In(svc.cfg.Location()))
	assert.False(t, dates[0].Before(tomorrow))

	for _, date := range dates {
		assert.False(t, utils.IsWeekend(date), "дата %s попала в выходные", date.Format("2006-01-02"))
	}
}
