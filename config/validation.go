package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// profileRules is checked after a profile was decoded, so the lists are known
// to hold strings.
type profileRules struct {
	Name     string   `validate:"required,max=64,identifier"`
	FilterBy []string `validate:"dive,identifier"`
	OrderBy  []string `validate:"dive,identifier"`
	SearchBy []string `validate:"dive,identifier"`
}

// ValidationError describes a profile field that failed validation.
type ValidationError struct {
	Profile string
	Field   string
	Tag     string
	Value   any
}

func (e ValidationError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("profile %s: %s is required", e.Profile, e.Field)
	case "identifier":
		return fmt.Sprintf("profile %s: %s must be an identifier, got %q", e.Profile, e.Field, e.Value)
	default:
		return fmt.Sprintf("profile %s: %s failed %s validation", e.Profile, e.Field, e.Tag)
	}
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
			return identifierRegex.MatchString(fl.Field().String())
		})
	})
	return validate
}

func validateProfile(name string, profile any) error {
	m, _ := profile.(map[string]any)
	rules := profileRules{
		Name:     name,
		FilterBy: stringList(m["filterBy"]),
		OrderBy:  stringList(m["orderBy"]),
		SearchBy: stringList(m["searchBy"]),
	}

	err := getValidator().Struct(rules)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("profile %s: %w", name, err)
	}

	errs := make([]error, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		errs = append(errs, ValidationError{
			Profile: name,
			Field:   lowerFirst(fe.Field()),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
		})
	}
	return errors.Join(errs...)
}

func stringList(v any) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		list := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				list = append(list, s)
			}
		}
		return list
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
