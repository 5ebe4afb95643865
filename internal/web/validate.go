package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/vbonduro/boatlog/internal/domain"
)

var errNotNumeric = errors.New("value is not a number")

// numeric accepts a JSON number or a string holding one. An empty string
// counts as absent.
type numeric struct {
	Value float64
	Set   bool
}

func (n *numeric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = numeric{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = numeric{Value: f, Set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errNotNumeric
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*n = numeric{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errNotNumeric
	}
	*n = numeric{Value: f, Set: true}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		n := field.Interface().(numeric)
		if !n.Set {
			return nil
		}
		return n.Value
	}, numeric{})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "person", func(fl validator.FieldLevel) bool {
		return domain.Person(fl.Field().String()).Valid()
	})
	mustRegister(v, "booking_status", func(fl validator.FieldLevel) bool {
		return domain.BookingStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "unit", func(fl validator.FieldLevel) bool {
		return domain.Unit(fl.Field().String()).Valid()
	})
	mustRegister(v, "date", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// requiredFields is implemented by request bodies to name the message used
// when any required field is missing.
type requiredFields interface {
	requiredMessage() string
}

// presenceChecker is implemented by request bodies with required fields the
// validator cannot see as missing.
type presenceChecker interface {
	missingRequired() bool
}

// requestError validates req and returns the client message for the first
// problem, or "" when req is valid.
func requestError(v *validator.Validate, req requiredFields) string {
	err := v.Struct(req)
	if pc, ok := req.(presenceChecker); ok && pc.missingRequired() {
		return req.requiredMessage()
	}
	if err != nil {
		return validationMessage(err, req)
	}
	return ""
}

// validationMessage turns validator output into a single client message.
// Missing required fields are reported before any other rule.
func validationMessage(err error, req requiredFields) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Invalid request body"
	}
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return req.requiredMessage()
		}
	}
	fe := errs[0]
	switch fe.Tag() {
	case "person":
		return domain.ErrInvalidPerson.Error()
	case "booking_status":
		return domain.ErrInvalidStatus.Error()
	case "unit":
		return domain.ErrInvalidUnit.Error()
	case "date":
		return fmt.Sprintf("Invalid %s. Expected YYYY-MM-DD", fe.Field())
	case "gte":
		return domain.ErrNegativeQuantity.Error()
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	default:
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
}

// decodeAndValidate reads the body into req and validates it, writing a 400
// and returning false on failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, req requiredFields) bool {
	if err := decodeJSON(w, r, req); err != nil {
		jsonError(w, http.StatusBadRequest, bodyErrorMessage(err))
		return false
	}
	if msg := requestError(s.validate, req); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// parseOptionalDate parses a date already checked by the validator. nil or
// empty input yields nil.
func parseOptionalDate(s *string) *domain.Date {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}

// clearableDate is parseOptionalDate for update bodies: a supplied empty
// string yields the zero Date, which is stored as NULL.
func clearableDate(s *string) *domain.Date {
	if s != nil && strings.TrimSpace(*s) == "" {
		return &domain.Date{}
	}
	return parseOptionalDate(s)
}
