package validation

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a structured validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects multiple field errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

// RequireField checks a required string field is non-empty.
func RequireField(ve *ValidationErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required")
	}
}

// ValidateEnum checks a field is one of allowed values.
func ValidateEnum(ve *ValidationErrors, field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	ve.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// ValidateDate checks a field is a valid date (YYYY-MM-DD).
func ValidateDate(ve *ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	_, err := time.Parse("2006-01-02", value)
	if err != nil {
		ve.Add(field, "must be a valid date (YYYY-MM-DD)")
	}
}

// ValidatePositiveInt checks a field is > 0.
func ValidatePositiveInt(ve *ValidationErrors, field string, value int) {
	if value <= 0 {
		ve.Add(field, "must be a positive integer")
	}
}

// ValidateNonNegativeInt checks a field is >= 0.
func ValidateNonNegativeInt(ve *ValidationErrors, field string, value int) {
	if value < 0 {
		ve.Add(field, "must not be negative")
	}
}

// Enumerations shared by handlers.
var (
	MovementTypes    = []string{"in", "out", "adjustment", "transfer"}
	OrderStatuses    = []string{"pending", "in_progress", "completed", "cancelled"}
	OrderPriorities  = []string{"low", "normal", "high", "urgent"}
	LineStatuses     = []string{"active", "maintenance", "inactive"}
	MaintenanceTypes = []string{"preventive", "corrective", "predictive"}
	Roles            = []string{"admin", "operator", "supervisor", "maintenance"}
)
