package common

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// Validator collects validation errors across fields
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName, value string, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Messages returns the collected user-facing messages
func (v *Validator) Messages() []string {
	msgs := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		msgs = append(msgs, err.Message)
	}
	return msgs
}

// Error returns a combined error, or nil when everything passed
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return NewAppError("VALIDATION_ERROR", strings.Join(v.Messages(), " "), ErrInvalidInput)
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName, value string) *ValidationError

// Required rejects empty or blank values
func Required(fieldName, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: fieldName, Message: "Campo obrigatório"}
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks the address against the registration format rule
func Email(fieldName, value string) *ValidationError {
	if !emailRegex.MatchString(value) {
		return &ValidationError{Field: fieldName, Message: "Email inválido"}
	}
	return nil
}

var (
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// PasswordCriteria returns the registration criteria the password is
// still missing. Empty result means the password is acceptable.
func PasswordCriteria(password string) []string {
	var missing []string
	if len(password) < 8 {
		missing = append(missing, "Mínimo 8 caracteres")
	}
	if !upperRegex.MatchString(password) {
		missing = append(missing, "Uma letra maiúscula")
	}
	if !lowerRegex.MatchString(password) {
		missing = append(missing, "Uma letra minúscula")
	}
	if !digitRegex.MatchString(password) {
		missing = append(missing, "Um número")
	}
	if !specialRegex.MatchString(password) {
		missing = append(missing, "Um caractere especial")
	}
	return missing
}

// Password enforces the full strength criteria set
func Password(fieldName, value string) *ValidationError {
	if missing := PasswordCriteria(value); len(missing) > 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: "Senha muito fraca: " + strings.Join(missing, ", "),
		}
	}
	return nil
}
