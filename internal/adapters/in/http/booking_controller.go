package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/clinic-booking-service/internal/config"
	"github.com/suchimauz/clinic-booking-service/internal/core/domain"
	"github.com/suchimauz/clinic-booking-service/internal/core/json_types"
	"github.com/suchimauz/clinic-booking-service/internal/core/ports/in"
)

// BookingController - REST-поверхность для webview-оболочки.
type BookingController struct {
	useCase in.BookingUseCase
	cfg     *config.Config
}

func NewBookingController(useCase in.BookingUseCase, cfg *config.Config) *BookingController {
	return &BookingController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *BookingController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/doctors", c.getDoctors)
		api.GET("/progress", c.getProgress)

		booking := api.Group("/booking")
		{
			booking.POST("/doctor", c.setDoctor)
			booking.POST("/date", c.setDate)
			booking.POST("/session", c.setSession)
			booking.POST("/patient", c.setPatient)
			booking.GET("/availability", c.getAvailability)
			booking.GET("/dates", c.getDates)
			booking.GET("/selection", c.getSelection)
			booking.POST("/commit", c.commit)
			booking.POST("/reset", c.reset)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("/search", c.searchAppointments)
			appointments.POST("/:id/rebook", c.rebook)
			appointments.POST("/:id/cancel", c.cancel)
		}
	}
}

type SetDoctorRequest struct {
	DoctorID uuid.UUID `json:"doctorId" binding:"required"`
}

type SetDateRequest struct {
	Date string `json:"date" binding:"required"`
}

type SetSessionRequest struct {
	Session    domain.SessionLabel `json:"session" binding:"required"`
	ScheduleID uuid.UUID           `json:"scheduleId" binding:"required"`
}

type SetPatientRequest struct {
	PatientID uuid.UUID `json:"patientId" binding:"required"`
}

type SearchAppointmentsRequest struct {
	IDNumber  string `json:"idNumber" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

type RebookRequest struct {
	Existing domain.Appointment        `json:"existing" binding:"required"`
	Next     SelectionRequest          `json:"next" binding:"required"`
	Search   SearchAppointmentsRequest `json:"search" binding:"required"`
}

type SelectionRequest struct {
	DoctorID   uuid.UUID           `json:"doctorId" binding:"required"`
	Date       string              `json:"date" binding:"required"`
	Session    domain.SessionLabel `json:"session" binding:"required"`
	ScheduleID uuid.UUID           `json:"scheduleId" binding:"required"`
	PatientID  uuid.UUID           `json:"patientId" binding:"required"`
}

type SelectionResponse struct {
	Selection domain.Selection `json:"selection"`
	Complete  bool             `json:"complete"`
}

func (c *BookingController) getDoctors(ctx *gin.Context) {
	caller, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	doctors, err := c.useCase.Doctors(ctx.Request.Context(), caller)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

func (c *BookingController) getProgress(ctx *gin.Context) {
	caller, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	doctorID, err := uuid.Parse(ctx.Query("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", ctx.Query("date"), c.cfg.Location())
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	progress, err := c.useCase.Progress(ctx.Request.Context(), caller, doctorID, date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"progress": progress})
}

// setDoctor устанавливает врача и сразу грузит его ленту на окно бронирования.
func (c *BookingController) setDoctor(ctx *gin.Context) {
	caller, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	var req SetDoctorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection, complete := c.useCase.SetDoctor(req.DoctorID)

	if err := c.useCase.LoadAvailability(ctx.Request.Context(), caller); err != nil {
		// Лента не загрузилась, но выбор врача состоялся: отдаем выбор и ошибку
		var transient *domain.TransientFetchError
		if errors.As(err, &transient) {
			ctx.JSON(http.StatusOK, gin.H{
				"selection":  selection,
				"complete":   complete,
				"fetchError": transient.Error(),
			})
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, SelectionResponse{Selection: selection, Complete: complete})
}

func (c *BookingController) setDate(ctx *gin.Context) {
	var req SetDateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, c.cfg.Location())
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	selection, complete, err := c.useCase.SetDate(date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, SelectionResponse{Selection: selection, Complete: complete})
}

func (c *BookingController) setSession(ctx *gin.Context) {
	var req SetSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection, complete, err := c.useCase.SetSession(req.Session, req.ScheduleID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, SelectionResponse{Selection: selection, Complete: complete})
}

func (c *BookingController) setPatient(ctx *gin.Context) {
	var req SetPatientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	selection, complete, err := c.useCase.SetPatient(req.PatientID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, SelectionResponse{Selection: selection, Complete: complete})
}

func (c *BookingController) getAvailability(ctx *gin.Context) {
	date, err := time.ParseInLocation("2006-01-02", ctx.Query("date"), c.cfg.Location())
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"sessions": c.useCase.ResolveAvailability(date),
	})
}

func (c *BookingController) getDates(ctx *gin.Context) {
	dates := c.useCase.BookingDates()
	formatted := make([]string, 0, len(dates))
	for _, date := range dates {
		formatted = append(formatted, date.Format("2006-01-02"))
	}

	ctx.JSON(http.StatusOK, gin.H{"dates": formatted})
}

func (c *BookingController) getSelection(ctx *gin.Context) {
	selection, complete := c.useCase.CurrentSelection()
	ctx.JSON(http.StatusOK, SelectionResponse{Selection: selection, Complete: complete})
}

func (c *BookingController) commit(ctx *gin.Context) {
	caller, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	appointment, err := c.useCase.Commit(ctx.Request.Context(), caller)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointment": appointment})
}

func (c *BookingController) reset(ctx *gin.Context) {
	c.useCase.Reset()
	ctx.Status(http.StatusNoContent)
}

func (c *BookingController) searchAppointments(ctx *gin.Context) {
	caller, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	var req SearchAppointmentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query, err := c.buildQuery(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appointments, err := c.useCase.SearchAppointments(ctx.Request.Context(), caller, query)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

func (c *BookingController) rebook(ctx *gin.Context) {
	caller, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	var req RebookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Existing.ID = appointmentID

	next, err := c.buildSelection(req.Next)
	if err != nil {
		respondError(ctx, err)
		return
	}

	query, err := c.buildQuery(req.Search)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := c.useCase.Rebook(ctx.Request.Context(), caller, req.Existing, next, query)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}

func (c *BookingController) cancel(ctx *gin.Context) {
	caller, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	appointmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	var appointment domain.Appointment
	if err := ctx.ShouldBindJSON(&appointment); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appointment.ID = appointmentID

	if err := c.useCase.Cancel(ctx.Request.Context(), caller, appointment); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// buildSelection собирает завершенный выбор из тела запроса через доменные
// мутаторы, чтобы не обходить каскадную проверку порядка.
func (c *BookingController) buildSelection(req SelectionRequest) (domain.Selection, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, c.cfg.Location())
	if err != nil {
		return domain.Selection{}, domain.NewValidationError("Invalid date format")
	}

	selection := domain.Selection{}.WithDoctor(req.DoctorID)
	selection, err = selection.WithDate(date)
	if err != nil {
		return domain.Selection{}, err
	}
	selection, err = selection.WithSession(req.Session, req.ScheduleID)
	if err != nil {
		return domain.Selection{}, err
	}
	return selection.WithPatient(req.PatientID)
}

func (c *BookingController) buildQuery(req SearchAppointmentsRequest) (domain.AppointmentQuery, error) {
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, c.cfg.Location())
	if err != nil {
		return domain.AppointmentQuery{}, err
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, c.cfg.Location())
	if err != nil {
		return domain.AppointmentQuery{}, err
	}

	return domain.AppointmentQuery{
		IDNumber:  req.IDNumber,
		StartDate: json_types.Date{Date: start},
		EndDate:   json_types.Date{Date: end},
		Page:      req.Page,
		Limit:     req.Limit,
	}, nil
}

// callerIdentity достает идентификатор LINE-пользователя из заголовка.
func callerIdentity(ctx *gin.Context) (domain.LineUserID, bool) {
	lineID := ctx.GetHeader("x-line-id")
	if lineID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing x-line-id header"})
		return "", false
	}
	return domain.LineUserID(lineID), true
}

// respondError транслирует таксономию ошибок ядра в HTTP-статусы.
// PartialFailure отдается с отдельным кодом: пользователю нужно сказать, что
// старой записи больше нет, а не что изменение не прошло.
func respondError(ctx *gin.Context, err error) {
	var validation *domain.ValidationError
	var transient *domain.TransientFetchError
	var rejected *domain.CommitRejected
	var partial *domain.PartialFailure

	switch {
	case errors.As(err, &partial):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":            partial.Error(),
			"code":             "partial_failure",
			"oldAppointmentId": partial.OldAppointmentID,
		})
	case errors.As(err, &rejected):
		ctx.JSON(http.StatusConflict, gin.H{"error": rejected.Error(), "code": "commit_rejected"})
	case errors.As(err, &validation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "code": "validation"})
	case errors.As(err, &transient):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": transient.Error(), "code": "transient_fetch"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (c *BookingController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1
			passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1
			if usernameMatch && passwordMatch {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
