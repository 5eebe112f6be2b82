package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Register installs the custom binding rules on gin's validator. It is safe
// to call from every handler constructor.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if tag == "" || tag == "-" {
				return f.Name
			}
			return tag
		})
		_ = v.RegisterValidation("notblank", notBlank)
	})
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return true
		}
		if field.Elem().Kind() == reflect.String {
			return strings.TrimSpace(field.Elem().String()) != ""
		}
	}
	return true
}

// FirstError renders a binding failure as a short client message.
func FirstError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		switch fe.Tag() {
		case "required", "notblank":
			return fe.Field() + " is required"
		case "max":
			return fe.Field() + " must be at most " + fe.Param()
		case "min", "gte":
			return fe.Field() + " must be at least " + fe.Param()
		case "gt":
			return fe.Field() + " must be greater than " + fe.Param()
		case "oneof":
			return fe.Field() + " must be one of " + fe.Param()
		case "email":
			return fe.Field() + " must be a valid email"
		case "datetime":
			return fe.Field() + " must be a date formatted as " + fe.Param()
		case "hexcolor":
			return fe.Field() + " must be a hex color such as #1A2B3C"
		case "url", "http_url":
			return fe.Field() + " must be a valid URL"
		}
		return fe.Field() + " is invalid"
	}
	return "invalid request payload"
}
