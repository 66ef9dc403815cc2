package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateTask checks a Task for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the task is valid.
func ValidateTask(t *Task) error {
	var ve ValidationError

	// Title: required and at most 500 characters.
	title := strings.TrimSpace(t.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 500 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 500 characters or fewer"})
	}

	// Priority: must be 0-4.
	if t.Priority < 0 || t.Priority > 4 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("must be between 0 and 4, got %d", t.Priority),
		})
	}

	// Status: must be a valid enum value (closed set).
	if !t.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", t.Status),
		})
	}

	// CompletedAt must agree with Status.
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		ve.Errors = append(ve.Errors, FieldError{Field: "completed_at", Message: "must be set when status is completed"})
	}
	if t.Status != StatusCompleted && t.CompletedAt != nil {
		ve.Errors = append(ve.Errors, FieldError{Field: "completed_at", Message: "must be empty unless status is completed"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateUser checks a User for constraint violations.
func ValidateUser(u *User) error {
	var ve ValidationError

	if strings.TrimSpace(u.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		ve.Errors = append(ve.Errors, FieldError{Field: "email", Message: fmt.Sprintf("invalid address %q", u.Email)})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateCategory checks a Category for constraint violations.
func ValidateCategory(c *Category) error {
	var ve ValidationError

	name := strings.TrimSpace(c.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 100 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 100 characters or fewer"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
