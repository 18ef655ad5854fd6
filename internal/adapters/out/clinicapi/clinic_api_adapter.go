package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/config"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/out"
)

// ClinicApiAdapter - HTTP-клиент API клиники. Идентификатор LINE-пользователя
// уходит в заголовке x-line-id и приходит аргументом на каждый вызов.
type ClinicApiAdapter struct {
	client  *http.Client
	baseURL string
	token   string
	logger  out.LoggerPort
}

// envelope - конверт ответов API: {success, data, message}
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type listEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func NewClinicApiAdapter(cfg *config.Config, logger out.LoggerPort) *ClinicApiAdapter {
	return &ClinicApiAdapter{
		client:  &http.Client{Timeout: time.Duration(cfg.ClinicApi.TimeoutSeconds) * time.Second},
		baseURL: cfg.ClinicApi.URL,
		token:   cfg.ClinicApi.Token,
		logger:  logger,
	}
}

func (a *ClinicApiAdapter) do(ctx context.Context, caller domain.LineUserID, method, path string, query nurl.Values, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-line-id", string(caller))
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Текст сервера отдаем наверх как есть, он показывается пользователю
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return nil, &domain.RemoteCallError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return raw, nil
}

func (a *ClinicApiAdapter) GetDoctors(ctx context.Context, caller domain.LineUserID) ([]domain.Doctor, error) {
	a.logger.Info("clinicapi.doctors.fetch", out.LogFields{})

	raw, err := a.do(ctx, caller, http.MethodGet, "/doctors", nil, nil)
	if err != nil {
		a.logger.Error("clinicapi.doctors.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	// Справочники приходят завернутыми в {data: [...], meta: {...}}
	var list listEnvelope
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}

	var doctors []domain.Doctor
	if err := json.Unmarshal(list.Data, &doctors); err != nil {
		a.logger.Error("clinicapi.doctors.decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("clinicapi.doctors.fetch_success", out.LogFields{
		"count": len(doctors),
	})

	return doctors, nil
}

// ListSchedules забирает ленту расписания врача на весь диапазон одним запросом.
func (a *ClinicApiAdapter) ListSchedules(ctx context.Context, caller domain.LineUserID, doctorID uuid.UUID, from, to time.Time) ([]domain.ScheduleSlot, error) {
	a.logger.Info("clinicapi.schedules.fetch", out.LogFields{
		"doctorId": doctorID,
		"from":     from,
		"to":       to,
	})

	query := nurl.Values{}
	query.Add("doctorId", doctorID.String())
	query.Add("startDate", from.Format(time.RFC3339))
	query.Add("endDate", to.Format(time.RFC3339))

	raw, err := a.do(ctx, caller, http.MethodGet, "/schedules", query, nil)
	if err != nil {
		a.logger.Error("clinicapi.schedules.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	var list listEnvelope
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}

	var slots []domain.ScheduleSlot
	if err := json.Unmarshal(list.Data, &slots); err != nil {
		a.logger.Error("clinicapi.schedules.decode_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("clinicapi.schedules.fetch_success", out.LogFields{
		"doctorId": doctorID,
		"count":    len(slots),
	})

	return slots, nil
}

func (a *ClinicApiAdapter) CreateAppointment(ctx context.Context, caller domain.LineUserID, req domain.AppointmentRequest) (*domain.Appointment, error) {
	a.logger.Info("clinicapi.appointment.create", out.LogFields{
		"scheduleId": req.ScheduleID,
		"patientId":  req.PatientID,
	})

	raw, err := a.do(ctx, caller, http.MethodPost, "/appointments", nil, req)
	if err != nil {
		a.logger.Error("clinicapi.appointment.create_failed", out.LogFields{
			"scheduleId": req.ScheduleID,
			"error":      err.Error(),
		})
		return nil, err
	}

	return decodeAppointment(raw)
}

func (a *ClinicApiAdapter) UpdateAppointment(ctx context.Context, caller domain.LineUserID, appointmentID uuid.UUID, req domain.AppointmentRequest) (*domain.Appointment, error) {
	a.logger.Info("clinicapi.appointment.update", out.LogFields{
		"appointmentId": appointmentID,
		"scheduleId":    req.ScheduleID,
	})

	raw, err := a.do(ctx, caller, http.MethodPut, fmt.Sprintf("/appointments/%s", appointmentID), nil, req)
	if err != nil {
		a.logger.Error("clinicapi.appointment.update_failed", out.LogFields{
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return nil, err
	}

	return decodeAppointment(raw)
}

func (a *ClinicApiAdapter) DeleteAppointment(ctx context.Context, caller domain.LineUserID, appointmentID uuid.UUID) error {
	a.logger.Info("clinicapi.appointment.delete", out.LogFields{
		"appointmentId": appointmentID,
	})

	_, err := a.do(ctx, caller, http.MethodDelete, fmt.Sprintf("/appointments/%s", appointmentID), nil, nil)
	if err != nil {
		a.logger.Error("clinicapi.appointment.delete_failed", out.LogFields{
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return err
	}

	return nil
}

func (a *ClinicApiAdapter) SearchAppointments(ctx context.Context, caller domain.LineUserID, q domain.AppointmentQuery) ([]domain.Appointment, error) {
	a.logger.Info("clinicapi.appointment.search", out.LogFields{
		"idNumber": q.IDNumber,
	})

	query := nurl.Values{}
	query.Add("idNumber", q.IDNumber)
	query.Add("startDate", q.StartDate.Date.Format("2006-01-02")+"T00:00:00Z")
	query.Add("endDate", q.EndDate.Date.Format("2006-01-02")+"T23:59:59Z")
	query.Add("page", fmt.Sprintf("%d", q.Page))
	query.Add("limit", fmt.Sprintf("%d", q.Limit))

	raw, err := a.do(ctx, caller, http.MethodGet, "/appointments/patient/search", query, nil)
	if err != nil {
		a.logger.Error("clinicapi.appointment.search_failed", out.LogFields{
			"idNumber": q.IDNumber,
			"error":    err.Error(),
		})
		return nil, err
	}

	var list listEnvelope
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}

	var appointments []domain.Appointment
	if err := json.Unmarshal(list.Data, &appointments); err != nil {
		a.logger.Error("clinicapi.appointment.search_decode_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	// API исторически отдает статусы вразнобой, приводим к локальным
	for i := range appointments {
		appointments[i].Status = domain.NormalizeAppointmentStatus(string(appointments[i].Status))
	}

	a.logger.Debug("clinicapi.appointment.search_success", out.LogFields{
		"count": len(appointments),
	})

	return appointments, nil
}

func decodeAppointment(raw json.RawMessage) (*domain.Appointment, error) {
	var appointment domain.Appointment
	if err := json.Unmarshal(raw, &appointment); err != nil {
		return nil, err
	}

	appointment.Status = domain.NormalizeAppointmentStatus(string(appointment.Status))
	return &appointment, nil
}
