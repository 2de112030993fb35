package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Selection is one validated city/month/day choice.
type Selection struct {
	City  string `validate:"required,city"`
	Month string `validate:"required,month"`
	Day   string `validate:"required,day"`
}

// NewSelection normalizes the three inputs into a Selection.
func NewSelection(city, month, day string) Selection {
	return Selection{
		City:  Normalize(city),
		Month: Normalize(month),
		Day:   Normalize(day),
	}
}

// AllMonths reports whether the month filter is disabled.
func (s Selection) AllMonths() bool {
	return s.Month == AllFilter
}

// AllDays reports whether the day filter is disabled.
func (s Selection) AllDays() bool {
	return s.Day == AllFilter
}

// Slug returns a file-name friendly form, e.g. "new_york_city_march_all".
func (s Selection) Slug() string {
	return strings.ReplaceAll(strings.Join([]string{s.City, s.Month, s.Day}, "_"), " ", "_")
}

func (s Selection) String() string {
	return fmt.Sprintf("%s/%s/%s", s.City, s.Month, s.Day)
}

// Validate checks every field against its vocabulary.
func (s Selection) Validate() error {
	if err := structValidator().Struct(s); err != nil {
		return fmt.Errorf("invalid selection %s: %w", s, err)
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// structValidator returns the shared validator with the vocabulary tags registered.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
			return IsCity(fl.Field().String())
		})
		v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
			return IsMonth(fl.Field().String())
		})
		v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
			return IsDay(fl.Field().String())
		})
		validate = v
	})
	return validate
}
