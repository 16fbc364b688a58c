package store

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
)

type AppointmentType string

const (
	AppointmentTypeTelephonic AppointmentType = "telephonic"
	AppointmentTypeVirtual    AppointmentType = "virtual"
)

// AppointmentTypes lists every accepted appointment type in display order.
var AppointmentTypes = []AppointmentType{AppointmentTypeTelephonic, AppointmentTypeVirtual}

type Appointment struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Type      AppointmentType   `json:"appointment_type"`
	Start     time.Time         `json:"start"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Active reports whether the appointment still occupies its slot.
func (a Appointment) Active() bool {
	return a.Status != AppointmentStatusCancelled
}

type CreateAppointmentParams struct {
	Name  string
	Email string
	Type  string
	Start time.Time
	Notes string
}
