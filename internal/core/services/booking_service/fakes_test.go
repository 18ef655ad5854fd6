package booking_service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)            {}
func (nopLogger) Info(string, out.LogFields)             {}
func (nopLogger) Warn(string, out.LogFields)             {}
func (nopLogger) Error(string, out.LogFields)            {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

// fakeClinicApi - API клиники в памяти с записью последовательности вызовов.
type fakeClinicApi struct {
	mu sync.Mutex

	schedulesByDoctor map[uuid.UUID][]domain.ScheduleSlot
	listErr           error
	listCalls         int
	// listHook дергается внутри ListSchedules до возврата результата,
	// им тесты моделируют действия пользователя во время летящего запроса
	listHook func(doctorID uuid.UUID)

	doctors    []domain.Doctor
	doctorsErr error

	store       map[uuid.UUID]domain.Appointment
	createErr   error
	updateErr   error
	deleteErr   error
	searchErr   error
	ops         []string
	createdReqs []domain.AppointmentRequest
}

func newFakeClinicApi() *fakeClinicApi {
	return &fakeClinicApi{
		schedulesByDoctor: make(map[uuid.UUID][]domain.ScheduleSlot),
		store:             make(map[uuid.UUID]domain.Appointment),
	}
}

func (f *fakeClinicApi) GetDoctors(ctx context.Context, caller domain.LineUserID) ([]domain.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.doctorsErr != nil {
		return nil, f.doctorsErr
	}
	return f.doctors, nil
}

func (f *fakeClinicApi) ListSchedules(ctx context.Context, caller domain.LineUserID, doctorID uuid.UUID, from, to time.Time) ([]domain.ScheduleSlot, error) {
	f.mu.Lock()
	f.listCalls++
	hook := f.listHook
	slots := f.schedulesByDoctor[doctorID]
	err := f.listErr
	f.mu.Unlock()

	if hook != nil {
		hook(doctorID)
	}
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (f *fakeClinicApi) CreateAppointment(ctx context.Context, caller domain.LineUserID, req domain.AppointmentRequest) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ops = append(f.ops, "create")
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.createdReqs = append(f.createdReqs, req)
	appointment := domain.Appointment{
		ID:         uuid.New(),
		ScheduleID: req.ScheduleID,
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		ClinicID:   req.ClinicID,
		Status:     domain.AppointmentStatusConfirmed,
	}
	f.store[appointment.ID] = appointment
	return &appointment, nil
}

func (f *fakeClinicApi) UpdateAppointment(ctx context.Context, caller domain.LineUserID, appointmentID uuid.UUID, req domain.AppointmentRequest) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ops = append(f.ops, "update")
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	appointment, ok := f.store[appointmentID]
	if !ok {
		return nil, &domain.RemoteCallError{StatusCode: 404, Message: "appointment not found"}
	}
	appointment.ScheduleID = req.ScheduleID
	f.store[appointmentID] = appointment
	return &appointment, nil
}

func (f *fakeClinicApi) DeleteAppointment(ctx context.Context, caller domain.LineUserID, appointmentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ops = append(f.ops, "delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}

	delete(f.store, appointmentID)
	return nil
}

func (f *fakeClinicApi) SearchAppointments(ctx context.Context, caller domain.LineUserID, query domain.AppointmentQuery) ([]domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ops = append(f.ops, "search")
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	appointments := make([]domain.Appointment, 0, len(f.store))
	for _, appointment := range f.store {
		appointments = append(appointments, appointment)
	}
	return appointments, nil
}
