// Package validation checks record structs against the ranges, lengths and
// choice sets declared in their `validate` tags.
//
// Besides the stock validator tags, records use:
//
//	choice        the field implements choices.Enum and must be a member of its set
//	dgte=N        decimal field is >= N
//	dlte=N        decimal field is <= N
//	digits=M.N    decimal field has at most M digits in total and N after the point
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Decimals reach the validators as "<coefficient>e<exponent>". Unlike
	// d.String() this never expands a large exponent into its digits.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return encodeDecimal(d)
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "choice", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(choices.Enum)
		return ok && e.Valid()
	})
	mustRegister(v, "dgte", func(fl validator.FieldLevel) bool {
		return compareDecimal(fl, func(cmp int) bool { return cmp >= 0 })
	})
	mustRegister(v, "dlte", func(fl validator.FieldLevel) bool {
		return compareDecimal(fl, func(cmp int) bool { return cmp <= 0 })
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		maxDigits, places, err := parseDigits(fl.Param())
		if err != nil {
			return false
		}
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return digitsProblem(d, maxDigits, places) == ""
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// maxScale bounds the exponent and digit count of values compared exactly.
// Every column is far narrower, so wider values are ordered by sign and
// magnitude alone and their digit checks fail without rescaling.
const maxScale = 64

func encodeDecimal(d decimal.Decimal) string {
	return d.Coefficient().String() + "e" + strconv.FormatInt(int64(d.Exponent()), 10)
}

func compareDecimal(fl validator.FieldLevel, ok func(int) bool) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	cmp, decided := compare(value, bound)
	return decided && ok(cmp)
}

// compare orders a and b. decided is false only for two out-of-scale values
// of the same sign and magnitude.
func compare(a, b decimal.Decimal) (cmp int, decided bool) {
	if sa, sb := a.Sign(), b.Sign(); sa != sb || sa == 0 {
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		}
		return 0, true
	}
	if inScale(a) && inScale(b) {
		return a.Cmp(b), true
	}
	ma, mb := magnitude(a), magnitude(b)
	switch {
	case ma < mb:
		return -a.Sign(), true
	case ma > mb:
		return a.Sign(), true
	}
	return 0, false
}

func inScale(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp <= maxScale && exp >= -maxScale && d.NumDigits() <= maxScale
}

// magnitude is m such that 10^(m-1) <= |d| < 10^m for non-zero d.
func magnitude(d decimal.Decimal) int64 {
	return int64(d.Exponent()) + int64(d.NumDigits())
}

func parseDigits(param string) (int, int, error) {
	total, frac, found := strings.Cut(param, ".")
	if !found {
		return 0, 0, fmt.Errorf("digits param %q must be M.N", param)
	}
	m, err := strconv.Atoi(total)
	if err != nil {
		return 0, 0, err
	}
	n, err := strconv.Atoi(frac)
	if err != nil {
		return 0, 0, err
	}
	return m, n, nil
}

// digitsProblem returns a message when d has more digits than a
// decimal(maxDigits, places) column holds. Trailing fractional zeros do not count.
func digitsProblem(d decimal.Decimal, maxDigits, places int) string {
	if d.IsZero() {
		return ""
	}
	tooManyPlaces := fmt.Sprintf("Ensure that there are no more than %d decimal places.", places)
	tooManyDigits := fmt.Sprintf("Ensure that there are no more than %d digits in total.", maxDigits)
	if !inScale(d) {
		if d.Exponent() < 0 {
			return tooManyPlaces
		}
		return tooManyDigits
	}

	coef := strings.TrimPrefix(d.Coefficient().String(), "-")
	exp := int(d.Exponent())
	for exp < 0 && len(coef) > 1 && coef[len(coef)-1] == '0' {
		coef = coef[:len(coef)-1]
		exp++
	}
	intDigits, fracDigits := len(coef)+exp, 0
	if exp < 0 {
		fracDigits = -exp
		intDigits = len(coef) - fracDigits
		if intDigits < 0 {
			intDigits = 0
		}
	}
	switch {
	case fracDigits > places:
		return tooManyPlaces
	case intDigits+fracDigits > maxDigits:
		return tooManyDigits
	case intDigits > maxDigits-places:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxDigits-places)
	}
	return ""
}

// Struct validates v and returns a *apperrors.ValidationError naming every rejected field.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	out := &apperrors.ValidationError{Errors: make([]apperrors.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, apperrors.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Var validates a single value against tag and reports failures under field.
func Var(field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %s: %w", field, err)
	}
	return apperrors.NewValidationError(field, message(verrs[0]))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "choice":
		return fmt.Sprintf("Value %q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "gte", "dgte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte", "dlte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "digits":
		maxDigits, places, err := parseDigits(fe.Param())
		if err == nil {
			if d, err := decimal.NewFromString(fmt.Sprint(fe.Value())); err == nil {
				if msg := digitsProblem(d, maxDigits, places); msg != "" {
					return msg
				}
			}
		}
		return "Enter a valid decimal number."
	}
	return "Enter a valid value."
}
