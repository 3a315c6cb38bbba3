package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("mission not found")
	ErrDuplicateID       = errors.New("mission with this id already exists")
	ErrValidation        = errors.New("invalid mission")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotEditable       = errors.New("mission is not editable")
)

// ValidationError описує одне некоректне поле
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Is дозволяє перевіряти будь-яку помилку валідації через errors.Is(err, ErrValidation)
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors збирає всі помилки валідації місії
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return "invalid mission: " + strings.Join(parts, "; ")
}

func (e ValidationErrors) Is(target error) bool {
	return target == ErrValidation && len(e) > 0
}

func (e *ValidationErrors) add(field, reason string) {
	*e = append(*e, &ValidationError{Field: field, Reason: reason})
}

func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
