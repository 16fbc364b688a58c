package email

import (
	"appointment-ivr/internal/clients/mail"
	"appointment-ivr/internal/observability"
	"appointment-ivr/internal/store"
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"
)

var (
	ErrSendingEmail  = errors.New("error sending email")
	ErrEmptyTemplate = errors.New("email template is empty")
)

const (
	TemplateConfirmation = "appointment_confirmation"
	TemplateRescheduled  = "appointment_rescheduled"
	TemplateCancellation = "appointment_cancellation"
)

// MailSender delivers a rendered message.
type MailSender interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

type emailTemplate struct {
	subject string
	html    *template.Template
	text    *template.Template
}

// EmailService renders appointment emails and hands them to a MailSender.
type EmailService struct {
	sender        MailSender
	defaultSender string
	location      *time.Location
	logger        *observability.Logger
	templates     map[string]emailTemplate
}

// TemplateData is what appointment templates can reference.
type TemplateData struct {
	Name          string
	AppointmentID int64
	Type          string
	Date          string
	Time          string
	PreviousDate  string
	PreviousTime  string
	Timezone      string
	Notes         string
}

var templateSources = map[string]struct{ subject, html, text string }{
	TemplateConfirmation: {
		subject: "Your appointment is confirmed",
		html: `<html>
	<body>
		<h1>Appointment confirmed</h1>
		<p>Hi {{.Name}},</p>
		<p>Your {{.Type}} appointment is booked for <strong>{{.Date}} at {{.Time}}</strong> ({{.Timezone}}).</p>
		<p>Your appointment ID is <strong>{{.AppointmentID}}</strong>. Keep it handy if you need to reschedule or cancel.</p>
		{{if .Notes}}<p>Notes: {{.Notes}}</p>{{end}}
	</body>
</html>`,
		text: `Hi {{.Name}},

Your {{.Type}} appointment is booked for {{.Date}} at {{.Time}} ({{.Timezone}}).
Your appointment ID is {{.AppointmentID}}. Keep it handy if you need to reschedule or cancel.
{{if .Notes}}
Notes: {{.Notes}}
{{end}}`,
	},
	TemplateRescheduled: {
		subject: "Your appointment has been rescheduled",
		html: `<html>
	<body>
		<h1>Appointment rescheduled</h1>
		<p>Hi {{.Name}},</p>
		<p>Appointment {{.AppointmentID}} has moved from {{.PreviousDate}} at {{.PreviousTime}} to <strong>{{.Date}} at {{.Time}}</strong> ({{.Timezone}}).</p>
	</body>
</html>`,
		text: `Hi {{.Name}},

Appointment {{.AppointmentID}} has moved from {{.PreviousDate}} at {{.PreviousTime}} to {{.Date}} at {{.Time}} ({{.Timezone}}).
`,
	},
	TemplateCancellation: {
		subject: "Your appointment has been cancelled",
		html: `<html>
	<body>
		<h1>Appointment cancelled</h1>
		<p>Hi {{.Name}},</p>
		<p>Appointment {{.AppointmentID}} on {{.Date}} at {{.Time}} ({{.Timezone}}) has been cancelled.</p>
		<p>Call us any time to book a new one.</p>
	</body>
</html>`,
		text: `Hi {{.Name}},

Appointment {{.AppointmentID}} on {{.Date}} at {{.Time}} ({{.Timezone}}) has been cancelled.
Call us any time to book a new one.
`,
	},
}

func New(sender MailSender, defaultSender string, location *time.Location, logger *observability.Logger) (*EmailService, error) {
	templates := make(map[string]emailTemplate, len(templateSources))
	for name, src := range templateSources {
		html, err := template.New(name + ".html").Parse(src.html)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s html template: %w", name, err)
		}
		text, err := template.New(name + ".txt").Parse(src.text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s text template: %w", name, err)
		}
		templates[name] = emailTemplate{subject: src.subject, html: html, text: text}
	}

	return &EmailService{
		sender:        sender,
		defaultSender: defaultSender,
		location:      location,
		logger:        logger,
		templates:     templates,
	}, nil
}

func (s *EmailService) templateData(appt store.Appointment) TemplateData {
	start := appt.Start.In(s.location)
	return TemplateData{
		Name:          appt.Name,
		AppointmentID: appt.ID,
		Type:          string(appt.Type),
		Date:          start.Format("Monday, January 2, 2006"),
		Time:          start.Format("15:04"),
		Timezone:      s.location.String(),
		Notes:         appt.Notes,
	}
}

func (s *EmailService) render(name string, data TemplateData) (mail.Message, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return mail.Message{}, fmt.Errorf("%w: %s not found", ErrEmptyTemplate, name)
	}

	var html, text bytes.Buffer
	if err := tmpl.html.Execute(&html, data); err != nil {
		return mail.Message{}, fmt.Errorf("failed to execute template: %w", err)
	}
	if err := tmpl.text.Execute(&text, data); err != nil {
		return mail.Message{}, fmt.Errorf("failed to execute template: %w", err)
	}

	return mail.Message{
		From:    s.defaultSender,
		Subject: tmpl.subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func (s *EmailService) send(ctx context.Context, name, to string, data TemplateData) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "email_type", Value: name},
		observability.Field{Key: "recipient", Value: observability.MaskEmail(to)},
		observability.Field{Key: "appointment_id", Value: data.AppointmentID},
	)

	msg, err := s.render(name, data)
	if err != nil {
		s.logger.Error(ctx, "failed to render email template", err)
		return err
	}
	msg.To = to

	if _, err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error(ctx, "failed to send appointment email", err)
		return fmt.Errorf("%w: %s", ErrSendingEmail, err.Error())
	}
	return nil
}

func (s *EmailService) SendAppointmentConfirmation(ctx context.Context, appt store.Appointment) error {
	return s.send(ctx, TemplateConfirmation, appt.Email, s.templateData(appt))
}

func (s *EmailService) SendAppointmentRescheduled(ctx context.Context, appt store.Appointment, previousStart time.Time) error {
	data := s.templateData(appt)
	previous := previousStart.In(s.location)
	data.PreviousDate = previous.Format("Monday, January 2, 2006")
	data.PreviousTime = previous.Format("15:04")
	return s.send(ctx, TemplateRescheduled, appt.Email, data)
}

func (s *EmailService) SendAppointmentCancellation(ctx context.Context, appt store.Appointment) error {
	return s.send(ctx, TemplateCancellation, appt.Email, s.templateData(appt))
}
