package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"cafehere/apperr"
	"cafehere/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	msgRequired       = "This field is required."
	msgInvalid        = "Invalid value."
	msgInvalidMobile  = "Enter a valid mobile number."
	msgMalformedInput = "Malformed request body."
	msgInvalidInput   = "Invalid input."
)

var registerOnce sync.Once
var registerErr error

// RegisterValidators adds the custom tags to gin's validator and makes it
// report fields by their json names. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonName)
		registerErr = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return model.ValidMobile(fl.Field().String())
		})
	})
	return registerErr
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Bind decodes the body (JSON or form, by Content-Type) into obj and
// validates it. Failures come back as field-level validation errors.
func Bind(c *gin.Context, obj any) error {
	err := c.ShouldBind(obj)
	if errors.Is(err, io.EOF) {
		// empty JSON body: still report which fields are missing
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		return BindError(err)
	}
	return nil
}

func BindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return BindError(err)
	}
	return nil
}

// BindError converts binding and validator errors into apperr validation errors.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := fieldPath(fe)
			fields[name] = append(fields[name], fieldMessage(fe))
		}
		return apperr.Validation(msgInvalidInput, fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperr.Field(typeErr.Field, msgInvalid)
	}
	return apperr.Validation(msgMalformedInput, nil)
}

// fieldPath drops the root struct and embedded struct names from the
// namespace, leaving the json path, e.g. "options[1].add_price".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := parts[:0]
	for _, p := range parts[1:] {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "mobile":
		return msgInvalidMobile
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return msgInvalid
	}
}
