package membership

import (
	"errors"
	"strings"
	"time"
)

// Age group options offered by the sign-up form. Validation only requires a
// non-empty value so that the form can change its options without a migration.
const (
	AgeGroupUnder18 = "under_18"
	AgeGroup18To25  = "18_25"
	AgeGroup26To40  = "26_40"
	AgeGroup41To60  = "41_60"
	AgeGroupOver60  = "over_60"
)

// AgeGroups lists the options in display order.
var AgeGroups = []string{AgeGroupUnder18, AgeGroup18To25, AgeGroup26To40, AgeGroup41To60, AgeGroupOver60}

// Max length constants for applicant-supplied fields.
const (
	MaxFieldLength      = 200
	MaxMotivationLength = 2000
)

// Field names used in validation errors and form re-rendering.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldLocation = "location"
	FieldAgeGroup = "ageGroup"
)

// Domain errors
var (
	ErrMissingFields     = errors.New("required fields are missing")
	ErrFieldTooLong      = errors.New("fields cannot exceed 200 characters")
	ErrMotivationTooLong = errors.New("motivation cannot exceed 2000 characters")
)

// Application is a membership sign-up. Phone and Motivation are optional.
type Application struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Location   string
	AgeGroup   string
	Motivation string
	CreatedAt  time.Time
}

// ValidationError lists every required field that was left empty.
type ValidationError struct {
	Missing []string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Unwrap lets callers match with errors.Is(err, ErrMissingFields).
func (e *ValidationError) Unwrap() error {
	return ErrMissingFields
}

// MissingFields returns the required fields that are empty or whitespace-only.
// INVARIANT: Application fields are not mutated
func (a *Application) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(a.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(a.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	if strings.TrimSpace(a.Location) == "" {
		missing = append(missing, FieldLocation)
	}
	if strings.TrimSpace(a.AgeGroup) == "" {
		missing = append(missing, FieldAgeGroup)
	}
	return missing
}

// Validate checks the required fields and length limits. Optional fields never
// cause a rejection unless they exceed their limit.
// PRE: Application struct is populated
// POST: Returns *ValidationError when required fields are missing
func (a *Application) Validate() error {
	if missing := a.MissingFields(); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	for _, f := range []string{a.Name, a.Email, a.Phone, a.Location, a.AgeGroup} {
		if len(f) > MaxFieldLength {
			return ErrFieldTooLong
		}
	}
	if len(a.Motivation) > MaxMotivationLength {
		return ErrMotivationTooLong
	}
	return nil
}

// Normalize trims surrounding whitespace from every field.
// POST: fields are trimmed; CreatedAt and ID untouched
func (a *Application) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Location = strings.TrimSpace(a.Location)
	a.AgeGroup = strings.TrimSpace(a.AgeGroup)
	a.Motivation = strings.TrimSpace(a.Motivation)
}

// AgeGroupLabel returns a human-readable label for an age group value.
func AgeGroupLabel(v string) string {
	switch v {
	case AgeGroupUnder18:
		return "Under 18"
	case AgeGroup18To25:
		return "18–25"
	case AgeGroup26To40:
		return "26–40"
	case AgeGroup41To60:
		return "41–60"
	case AgeGroupOver60:
		return "Over 60"
	default:
		return v
	}
}
