package booking_service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
)

func TestCancel_Success(t *testing.T) {
	svc, fake := newTestService(t)

	existing := makeExisting(fake, futureDate(5))

	require.NoError(t, svc.Cancel(context.Background(), testCaller, existing))

	_, stillThere := fake.store[existing.ID]
	assert.False(t, stillThere)
}

func TestCancel_Rejected(t *testing.T) {
	svc, fake := newTestService(t)

	existing := makeExisting(fake, futureDate(5))
	fake.deleteErr = &domain.RemoteCallError{StatusCode: 409, Message: "該預約無法取消"}

	err := svc.Cancel(context.Background(), testCaller, existing)

	var rejected *domain.CommitRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "該預約無法取消", rejected.Message)
}

func TestSearchAppointments_FetchFailure(t *testing.T) {
	svc, fake := newTestService(t)

	fake.searchErr = errors.New("connection reset")

	_, err := svc.SearchAppointments(context.Background(), testCaller, domain.AppointmentQuery{IDNumber: "A123456789"})

	var fetchErr *domain.TransientFetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestSearchAppointments_ReturnsStored(t *testing.T) {
	svc, fake := newTestService(t)

	existing := makeExisting(fake, futureDate(5))

	appointments, err := svc.SearchAppointments(context.Background(), testCaller, domain.AppointmentQuery{IDNumber: "A123456789"})
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, existing.ID, appointments[0].ID)
}

func TestDoctors(t *testing.T) {
	svc, fake := newTestService(t)

	fake.doctors = []domain.Doctor{{Name: "Доктор Тест", Specialty: "Терапия"}}

	doctors, err := svc.Doctors(context.Background(), testCaller)
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	fake.doctorsErr = errors.New("connection refused")
	_, err = svc.Doctors(context.Background(), testCaller)

	var fetchErr *domain.TransientFetchError
	require.ErrorAs(t, err, &fetchErr)
}
