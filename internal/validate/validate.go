// Package validate checks user input before it reaches the store.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxNoteLength is the longest note accepted, in characters.
const MaxNoteLength = 500

var (
	v          *validator.Validate
	whitespace = regexp.MustCompile(`\s+`)
	nonBlank   = regexp.MustCompile(`\S`)
)

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// Money fields validate as their float value so gt/gte/lte apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.MonthLayout, fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonBlank.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("icon", func(fl validator.FieldLevel) bool {
		return model.Icon(fl.Field().String()).Valid()
	})

	_ = v.RegisterValidation("incomesource", func(fl validator.FieldLevel) bool {
		return model.IncomeSource(fl.Field().String()).Valid()
	})

	_ = v.RegisterValidation("runemax", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) <= MaxNoteLength
	})
}

// Struct validates any tagged struct and returns an error wrapping
// common.ErrValidation that lists every failing field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldErrorToString(e))
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(msgs, "; "))
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "yearmonth":
		return fmt.Sprintf("%s must be in YYYY-MM format", e.Field())
	case "icon":
		return fmt.Sprintf("%s must be one of the supported icons", e.Field())
	case "incomesource":
		return fmt.Sprintf("%s must be one of Salary, Freelance, Business, Investment, Gift, Other", e.Field())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color like #10B981", e.Field())
	case "runemax":
		return fmt.Sprintf("%s must be less than %d characters", e.Field(), MaxNoteLength)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte", "lte":
		if e.Field() == "alertThreshold" {
			return fmt.Sprintf("%s must be between 0 and 100", e.Field())
		}
		return fmt.Sprintf("%s must not be negative", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// Errorf builds a validation error with a custom message.
func Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}
