package tools

const (
	ToolCreateAppointment     = "create_appointment"
	ToolRescheduleAppointment = "reschedule_appointment"
	ToolCancelAppointment     = "cancel_appointment"
	ToolGetAvailableSlots     = "get_available_slots"
	ToolCheckAvailability     = "check_appointment_availability"
)

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
)

type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// Definition describes one tool to a language model.
type Definition struct {
	Name        string
	Description string
	Params      []Param
}

// JSONSchema renders the parameters as a JSON Schema object.
func (d Definition) JSONSchema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	required := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		properties[p.Name] = map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

var (
	dateParam = Param{Name: "date", Type: ParamString, Description: "Date in YYYY-MM-DD format", Required: true}
	timeParam = Param{Name: "time", Type: ParamString, Description: "Time in HH:MM:SS 24-hour format", Required: true}
	idParam   = Param{Name: "appointment_id", Type: ParamInteger, Description: "Appointment ID given to the caller at booking", Required: true}
)

var definitions = []Definition{
	{
		Name:        ToolCreateAppointment,
		Description: "Book a new appointment. Only call after the caller has confirmed every detail.",
		Params: []Param{
			{Name: "name", Type: ParamString, Description: "Caller's full name", Required: true},
			{Name: "email", Type: ParamString, Description: "Caller's email address", Required: true},
			{Name: "appointment_type", Type: ParamString, Description: "telephonic or virtual", Required: true},
			dateParam,
			timeParam,
			{Name: "notes", Type: ParamString, Description: "Symptoms or other notes, if any"},
		},
	},
	{
		Name:        ToolRescheduleAppointment,
		Description: "Move an existing appointment to a new date and time.",
		Params:      []Param{idParam, dateParam, timeParam},
	},
	{
		Name:        ToolCancelAppointment,
		Description: "Cancel an existing appointment.",
		Params:      []Param{idParam},
	},
	{
		Name:        ToolGetAvailableSlots,
		Description: "List every free appointment slot on a date.",
		Params:      []Param{dateParam},
	},
	{
		Name:        ToolCheckAvailability,
		Description: "Check whether a specific date and time can be booked.",
		Params:      []Param{dateParam, timeParam},
	},
}

// Definitions returns every tool the facade can dispatch.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}
