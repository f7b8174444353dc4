package valuation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/dcf-simulator/internal/models"
)

var (
	paramValidator     *validator.Validate
	paramValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	paramValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterValidation("finite", validateFinite)
		paramValidator = v
	})
	return paramValidator
}

// validateFinite rejects NaN and infinities.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks that params can be valued: every number finite, probabilities
// in [0,100], a positive diluted share count, and a discount rate above the
// terminal growth rate.
func Validate(params models.ValuationParameters) error {
	if err := getValidator().Struct(params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidParameters, err)
	}

	macro := params.Macro
	if macro.DiscountRate <= macro.TerminalGrowthRate {
		return fmt.Errorf("%w: discount rate %.2f%%, terminal growth %.2f%%",
			models.ErrDegenerateTerminalValue, macro.DiscountRate, macro.TerminalGrowthRate)
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		field := strings.TrimPrefix(e.Namespace(), "ValuationParameters.")
		switch e.Tag() {
		case "finite":
			msgs = append(msgs, fmt.Sprintf("%s must be a finite number", field))
		case "gt", "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", field, e.Tag(), e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, e.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", models.ErrInvalidParameters, strings.Join(msgs, "; "))
}

// ValidateScenario checks a scenario's metadata and its parameters.
func ValidateScenario(s models.Scenario) error {
	if err := getValidator().StructExcept(s, "Params"); err != nil {
		return fmt.Errorf("%w: scenario %q: %v", models.ErrInvalidParameters, s.ID, err)
	}
	if err := Validate(s.Params); err != nil {
		return fmt.Errorf("scenario %s: %w", s.ID, err)
	}
	return nil
}
