package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	apperrors "staymi/pkg/errors"
	"staymi/pkg/locale"
	"staymi/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fail builds a single-field ValidationErrors for rules struct tags cannot express.
func Fail(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// Validator wraps go-playground/validator with the platform's custom tags.
// Field names in errors are the JSON names clients send.
type Validator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	custom := map[string]validator.Func{
		"decimal_gt":  validateDecimalGT,
		"decimal_gte": validateDecimalGTE,
		"currency":    validateCurrency,
		"date":        validateDate,
		"clock":       validateClock,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	return &Validator{
		validate: v,
		logger:   log,
	}
}

// Struct validates s and returns ValidationErrors for tag failures.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ToAppError turns ValidationErrors into a 422; other errors pass through.
func ToAppError(err error) error {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Validation failed", map[string]any{"errors": verrs})
	}
	return err
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func compareDecimal(fl validator.FieldLevel) (int, bool) {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return 0, false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return 0, false
	}
	return value.Cmp(bound), true
}

func validateDecimalGT(fl validator.FieldLevel) bool {
	cmp, ok := compareDecimal(fl)
	return ok && cmp > 0
}

func validateDecimalGTE(fl validator.FieldLevel) bool {
	cmp, ok := compareDecimal(fl)
	return ok && cmp >= 0
}

func validateCurrency(fl validator.FieldLevel) bool {
	return locale.IsCurrency(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required", "required_with":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid id", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +886912345678)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid e-mail address", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "decimal_gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "decimal_gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "currency":
			message = fmt.Sprintf("%s must be a supported ISO 4217 currency code", err.Field())
		case "date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "clock":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be an IANA time zone", err.Field())
		case "iso3166_1_alpha2":
			message = fmt.Sprintf("%s must be an ISO 3166-1 alpha-2 country code", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
