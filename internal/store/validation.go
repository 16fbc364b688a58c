package store

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nameRegex  = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ'\- ]+$`)
	emailRegex = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
)

// normalizeParams trims input and checks contact details and type.
// The returned params carry the canonical lowercase type.
func normalizeParams(params CreateAppointmentParams) (CreateAppointmentParams, AppointmentType, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.TrimSpace(params.Email)
	params.Notes = strings.TrimSpace(params.Notes)

	if err := validateName(params.Name); err != nil {
		return params, "", err
	}
	if err := validateEmail(params.Email); err != nil {
		return params, "", err
	}
	apptType, err := ParseAppointmentType(params.Type)
	if err != nil {
		return params, "", err
	}
	return params, apptType, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: name may only contain letters, spaces, hyphens and apostrophes", ErrValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: email %q is not a valid address", ErrValidation, email)
	}
	return nil
}

// ParseAppointmentType accepts any casing of a known type.
func ParseAppointmentType(s string) (AppointmentType, error) {
	candidate := AppointmentType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range AppointmentTypes {
		if candidate == t {
			return t, nil
		}
	}
	names := make([]string, len(AppointmentTypes))
	for i, t := range AppointmentTypes {
		names[i] = string(t)
	}
	return "", fmt.Errorf("%w: appointment type must be one of %s", ErrValidation, strings.Join(names, ", "))
}
