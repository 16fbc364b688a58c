package tools

import (
	"appointment-ivr/internal/appointments/processor"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/scheduling"
	"appointment-ivr/internal/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

// Booker is the appointment surface exposed to the model.
type Booker interface {
	Book(ctx context.Context, req processor.BookRequest) (store.Appointment, error)
	Reschedule(ctx context.Context, id int64, newStart time.Time) (store.Appointment, error)
	Cancel(ctx context.Context, id int64) (store.Appointment, error)
	AvailableSlots(ctx context.Context, date time.Time) ([]time.Time, error)
	CheckAvailability(ctx context.Context, start time.Time) (bool, error)
	ClosestSlots(ctx context.Context, requested time.Time, max int) ([]time.Time, error)
}

// Facade turns tool calls into appointment operations. Every result is a
// plain sentence for the model; rejected requests are results, not errors.
type Facade struct {
	booker Booker
	hours  scheduling.Hours
	logger *observability.Logger
}

func New(booker Booker, hours scheduling.Hours, logger *observability.Logger) *Facade {
	return &Facade{
		booker: booker,
		hours:  hours,
		logger: logger,
	}
}

type CreateAppointmentArgs struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	AppointmentType string `json:"appointment_type"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Notes           string `json:"notes"`
}

type RescheduleAppointmentArgs struct {
	AppointmentID AppointmentID `json:"appointment_id"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
}

type CancelAppointmentArgs struct {
	AppointmentID AppointmentID `json:"appointment_id"`
}

type GetAvailableSlotsArgs struct {
	Date string `json:"date"`
}

type CheckAvailabilityArgs struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// AppointmentID accepts a JSON number or a numeric string.
type AppointmentID int64

func (id *AppointmentID) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("appointment_id %s is not a number", string(data))
	}
	*id = AppointmentID(v)
	return nil
}

// Dispatch runs the tool called name with JSON encoded arguments.
func (f *Facade) Dispatch(ctx context.Context, name, arguments string) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "tool", Value: name})
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}

	switch name {
	case ToolCreateAppointment:
		var args CreateAppointmentArgs
		if err := decode(arguments, &args); err != nil {
			return "", err
		}
		return f.CreateAppointment(ctx, args)
	case ToolRescheduleAppointment:
		var args RescheduleAppointmentArgs
		if err := decode(arguments, &args); err != nil {
			return "", err
		}
		return f.RescheduleAppointment(ctx, args)
	case ToolCancelAppointment:
		var args CancelAppointmentArgs
		if err := decode(arguments, &args); err != nil {
			return "", err
		}
		return f.CancelAppointment(ctx, args)
	case ToolGetAvailableSlots:
		var args GetAvailableSlotsArgs
		if err := decode(arguments, &args); err != nil {
			return "", err
		}
		return f.GetAvailableSlots(ctx, args)
	case ToolCheckAvailability:
		var args CheckAvailabilityArgs
		if err := decode(arguments, &args); err != nil {
			return "", err
		}
		return f.CheckAvailability(ctx, args)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

func decode(arguments string, v any) error {
	if err := json.Unmarshal([]byte(arguments), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func (f *Facade) CreateAppointment(ctx context.Context, args CreateAppointmentArgs) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email", Value: observability.MaskEmail(args.Email)},
		observability.Field{Key: "date", Value: args.Date},
		observability.Field{Key: "time", Value: args.Time},
	)
	f.logger.Info(ctx, "tool called")

	start, msg := f.parseStart(args.Date, args.Time)
	if msg != "" {
		return msg, nil
	}

	appt, err := f.booker.Book(ctx, processor.BookRequest{
		Name:  args.Name,
		Email: args.Email,
		Type:  args.AppointmentType,
		Start: start,
		Notes: args.Notes,
	})
	if err != nil {
		return f.describe(ctx, err, "book an appointment", start)
	}

	return fmt.Sprintf("Appointment created successfully with ID: %d for %s on %s at %s.",
		appt.ID, appt.Name, appt.Start.Format(dateLayout), appt.Start.Format(timeLayout)), nil
}

func (f *Facade) RescheduleAppointment(ctx context.Context, args RescheduleAppointmentArgs) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "appointment_id", Value: int64(args.AppointmentID)},
		observability.Field{Key: "date", Value: args.Date},
		observability.Field{Key: "time", Value: args.Time},
	)
	f.logger.Info(ctx, "tool called")

	start, msg := f.parseStart(args.Date, args.Time)
	if msg != "" {
		return msg, nil
	}

	appt, err := f.booker.Reschedule(ctx, int64(args.AppointmentID), start)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(args.AppointmentID), nil
		}
		return f.describe(ctx, err, "reschedule the appointment", start)
	}

	return fmt.Sprintf("Appointment %d has been rescheduled to %s at %s.",
		appt.ID, appt.Start.Format(dateLayout), appt.Start.Format(timeLayout)), nil
}

func (f *Facade) CancelAppointment(ctx context.Context, args CancelAppointmentArgs) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "appointment_id", Value: int64(args.AppointmentID)})
	f.logger.Info(ctx, "tool called")

	appt, err := f.booker.Cancel(ctx, int64(args.AppointmentID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(args.AppointmentID), nil
		}
		return "", err
	}

	return fmt.Sprintf("Appointment %d on %s at %s has been cancelled.",
		appt.ID, appt.Start.Format(dateLayout), appt.Start.Format(timeLayout)), nil
}

func (f *Facade) GetAvailableSlots(ctx context.Context, args GetAvailableSlotsArgs) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "date", Value: args.Date})
	f.logger.Info(ctx, "tool called")

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(args.Date), f.hours.Location)
	if err != nil {
		return "Date must be in YYYY-MM-DD format.", nil
	}

	slots, err := f.booker.AvailableSlots(ctx, date)
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		return fmt.Sprintf("No available slots for %s.", date.Format(dateLayout)), nil
	}
	return fmt.Sprintf("Available slots for %s: %s.", date.Format(dateLayout), joinSlots(slots)), nil
}

func (f *Facade) CheckAvailability(ctx context.Context, args CheckAvailabilityArgs) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "date", Value: args.Date},
		observability.Field{Key: "time", Value: args.Time},
	)
	f.logger.Info(ctx, "tool called")

	start, msg := f.parseStart(args.Date, args.Time)
	if msg != "" {
		return msg, nil
	}

	available, err := f.booker.CheckAvailability(ctx, start)
	if err != nil {
		return f.describe(ctx, err, "check availability", start)
	}
	if !available {
		return f.slotTaken(ctx, start)
	}
	return fmt.Sprintf("Time slot %s on %s is available.", start.Format(timeLayout), start.Format(dateLayout)), nil
}

// parseStart combines a date and a time in the business timezone. A
// non-empty message means the input was malformed.
func (f *Facade) parseStart(date, clock string) (time.Time, string) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), f.hours.Location)
	if err != nil {
		return time.Time{}, "Date must be in YYYY-MM-DD format."
	}

	clock = strings.TrimSpace(clock)
	tod, err := time.Parse(timeLayout, clock)
	if err != nil {
		tod, err = time.Parse(shortTimeLayout, clock)
		if err != nil {
			return time.Time{}, "Time must be in HH:MM:SS format."
		}
	}

	start, ok := scheduling.WallTime(day, tod, f.hours.Location)
	if !ok {
		return time.Time{}, fmt.Sprintf("Time must exist on the local clock; %s is skipped on %s by a daylight saving change.",
			tod.Format(timeLayout), day.Format(dateLayout))
	}
	return start, ""
}

// describe turns a booking failure into a sentence for the model.
// Unexpected errors are returned as errors.
func (f *Facade) describe(ctx context.Context, err error, action string, start time.Time) (string, error) {
	switch {
	case errors.Is(err, store.ErrSlotTaken):
		return f.slotTaken(ctx, start)
	case errors.Is(err, scheduling.ErrPastDate):
		return fmt.Sprintf("Cannot %s in the past.", action), nil
	case errors.Is(err, scheduling.ErrOutsideBusinessHours):
		return fmt.Sprintf("Time must be within business hours (%s to %s) on %s.",
			scheduling.FormatClock(f.hours.Open), scheduling.FormatClock(f.hours.Close), f.businessDays()), nil
	case errors.Is(err, scheduling.ErrInvalidGranularity):
		return fmt.Sprintf("Appointments can only start every %d minutes (e.g., %s).",
			int(f.hours.Granularity/time.Minute), f.exampleSlots()), nil
	case errors.Is(err, store.ErrValidation):
		reason := strings.TrimPrefix(err.Error(), store.ErrValidation.Error()+": ")
		return fmt.Sprintf("Could not %s: %s.", action, reason), nil
	default:
		f.logger.Error(ctx, "tool failed", err)
		return "", err
	}
}

func (f *Facade) slotTaken(ctx context.Context, start time.Time) (string, error) {
	prefix := fmt.Sprintf("Time slot %s on %s is not available.", start.Format(timeLayout), start.Format(dateLayout))

	alternatives, err := f.booker.ClosestSlots(ctx, start, processor.DefaultClosestSlots)
	if err != nil {
		return "", err
	}
	if len(alternatives) == 0 {
		return prefix + " No available slots for this date.", nil
	}
	return fmt.Sprintf("%s Closest available slots: %s.", prefix, joinSlots(alternatives)), nil
}

func (f *Facade) businessDays() string {
	names := make([]string, len(f.hours.Days))
	for i, d := range f.hours.Days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

func (f *Facade) exampleSlots() string {
	first := f.hours.Open
	if rem := first % f.hours.Granularity; rem != 0 {
		first += f.hours.Granularity - rem
	}
	examples := []string{scheduling.FormatClock(first) + ":00"}
	if second := first + f.hours.Granularity; second < f.hours.Close {
		examples = append(examples, scheduling.FormatClock(second)+":00")
	}
	return strings.Join(examples, ", ")
}

func joinSlots(slots []time.Time) string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format(timeLayout)
	}
	return strings.Join(out, ", ")
}

func notFound(id AppointmentID) string {
	return fmt.Sprintf("No active appointment found with ID %d.", int64(id))
}
