package validation

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// V returns the shared validator with the custom rules registered.
func V() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("positive_decimal", positiveDecimalValidator)
	})
	return validate
}

// ParsePositiveDecimal parses s as a finite decimal greater than zero.
func ParsePositiveDecimal(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

// FirstInvalidField validates s and returns the JSON name of the first failing field in
// declaration order, or "" when s is valid.
func FirstInvalidField(s interface{}) (string, error) {
	err := V().Struct(s)
	if err == nil {
		return "", nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), nil
	}
	return "", err
}

func positiveDecimalValidator(fl validator.FieldLevel) bool {
	_, ok := ParsePositiveDecimal(fl.Field().String())
	return ok
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
