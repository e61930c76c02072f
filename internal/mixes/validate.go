package mixes

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrIDChanged is returned when an edited mix is saved under a different id.
var ErrIDChanged = errors.New("mix id cannot change while editing")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type identity struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// ValidateIdentity checks that id and name are non-empty once trimmed.
func ValidateIdentity(id, name string) error {
	in := identity{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
	if err := validate.Struct(in); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validate mix: %w", err)
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return &ValidationError{Fields: fields}
}

// Commit trims and validates the mix identity, then saves it. editingID is
// the id of the mix being edited, or empty for a new mix. Nothing is written
// when validation fails.
func Commit(ctx context.Context, store Store, mix Mix, editingID string) (Mix, error) {
	mix.ID = strings.TrimSpace(mix.ID)
	mix.Name = strings.TrimSpace(mix.Name)

	if err := ValidateIdentity(mix.ID, mix.Name); err != nil {
		return Mix{}, err
	}
	if editingID = strings.TrimSpace(editingID); editingID != "" && editingID != mix.ID {
		return Mix{}, ErrIDChanged
	}

	if err := store.Save(ctx, mix); err != nil {
		return Mix{}, err
	}
	return mix, nil
}
