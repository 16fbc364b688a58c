package handler

import (
	"appointment-ivr/internal/apierrors"
	"appointment-ivr/internal/appointments/processor"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/scheduling"
	"appointment-ivr/internal/store"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

type Handler struct {
	processor *processor.AppointmentProcessor
	location  *time.Location
	logger    *observability.Logger
}

func New(processor *processor.AppointmentProcessor, location *time.Location, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		location:  location,
		logger:    logger,
	}
}

type CreateAppointmentRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	AppointmentType string `json:"appointment_type" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	Notes           string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type AppointmentListResponse struct {
	Appointments []store.Appointment `json:"appointments"`
}

func (h *Handler) HandleCreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	start, ok := h.parseStart(c, req.Date, req.Time)
	if !ok {
		return
	}

	ctx := observability.WithFields(c.Request.Context(),
		observability.Field{Key: "email", Value: observability.MaskEmail(req.Email)},
		observability.Field{Key: "start", Value: start.Format(time.RFC3339)},
	)

	appt, err := h.processor.Book(ctx, processor.BookRequest{
		Name:  req.Name,
		Email: req.Email,
		Type:  req.AppointmentType,
		Start: start,
		Notes: req.Notes,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appt)
}

func (h *Handler) HandleGetAppointment(c *gin.Context) {
	id, ok := h.getAppointmentID(c)
	if !ok {
		return
	}

	appt, err := h.processor.GetAppointment(c.Request.Context(), id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (h *Handler) HandleRescheduleAppointment(c *gin.Context) {
	id, ok := h.getAppointmentID(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	start, ok := h.parseStart(c, req.Date, req.Time)
	if !ok {
		return
	}

	ctx := observability.WithFields(c.Request.Context(), observability.Field{Key: "appointment_id", Value: id})
	appt, err := h.processor.Reschedule(ctx, id, start)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

func (h *Handler) HandleCancelAppointment(c *gin.Context) {
	id, ok := h.getAppointmentID(c)
	if !ok {
		return
	}

	ctx := observability.WithFields(c.Request.Context(), observability.Field{Key: "appointment_id", Value: id})
	appt, err := h.processor.Cancel(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, appt)
}

// HandleListAppointments filters by ?email= or ?date=. One of them is required.
func (h *Handler) HandleListAppointments(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		appointments []store.Appointment
		err          error
	)
	switch {
	case c.Query("email") != "":
		appointments, err = h.processor.ListByContact(ctx, c.Query("email"))
	case c.Query("date") != "":
		day, ok := h.parseDate(c, c.Query("date"))
		if !ok {
			return
		}
		appointments, err = h.processor.ListByDate(ctx, day)
	default:
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Either email or date query parameter is required"))
		return
	}
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	if appointments == nil {
		appointments = []store.Appointment{}
	}
	c.JSON(http.StatusOK, AppointmentListResponse{Appointments: appointments})
}

// HandleListSlots returns the open start times for ?date= as HH:MM:SS.
func (h *Handler) HandleListSlots(c *gin.Context) {
	day, ok := h.parseDate(c, c.Query("date"))
	if !ok {
		return
	}

	slots, err := h.processor.AvailableSlots(c.Request.Context(), day)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	resp := SlotsResponse{Date: day.Format(dateLayout), Slots: make([]string, 0, len(slots))}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, slot.In(h.location).Format(timeLayout))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getAppointmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Appointment ID must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) parseDate(c *gin.Context, date string) (time.Time, bool) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), h.location)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Date must be in YYYY-MM-DD format"))
		return time.Time{}, false
	}
	return day, true
}

// parseStart reads a wall-clock date and time in the business timezone.
// Both HH:MM and HH:MM:SS are accepted.
func (h *Handler) parseStart(c *gin.Context, date, clock string) (time.Time, bool) {
	day, ok := h.parseDate(c, date)
	if !ok {
		return time.Time{}, false
	}

	clock = strings.TrimSpace(clock)
	tod, err := time.Parse(timeLayout, clock)
	if err != nil {
		tod, err = time.Parse(shortTimeLayout, clock)
	}
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Time must be in HH:MM or HH:MM:SS format"))
		return time.Time{}, false
	}

	start, ok := scheduling.WallTime(day, tod, h.location)
	if !ok {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Time does not exist on that date in the business timezone"))
		return time.Time{}, false
	}
	return start, true
}
