// Package inputval checks form input before it is sent to the club API.
//
// Form structs carry `validate` and `label` tags:
//
//	type memberInput struct {
//		FirstName string `validate:"required,max=100" label:"First name"`
//		Email     string `validate:"required,clubemail" label:"Email"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//		data.SetError(res.First())
//	}
package inputval

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/go-playground/validator/v10"
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = v.RegisterValidation("clubemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return IsValidHTTPURL(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsValidDate(s)
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsValidClock(s)
	})
	return v
}

// IsValidEmail reports whether s looks like name@domain.tld.
func IsValidEmail(s string) bool {
	return emailRE.MatchString(strings.TrimSpace(s))
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidDate accepts the YYYY-MM-DD form used by date inputs.
func IsValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}

// IsValidClock accepts the 24-hour HH:MM form used by time inputs.
func IsValidClock(s string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects every failed rule in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Err returns the first failure as an apiclient validation error, or nil.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return apiclient.Invalid(r.Errors[0].Field, r.Errors[0].Message)
}

// Validate runs the struct's tag rules.
func Validate(s any) *Result {
	res := &Result{}
	err := validate.Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		if isText {
			return label + " must be at most " + fe.Param() + " characters."
		}
		return label + " must be at most " + fe.Param() + "."
	case "min":
		if isText {
			return label + " must be at least " + fe.Param() + " characters."
		}
		return label + " must be at least " + fe.Param() + "."
	case "gte":
		return label + " must be at least " + fe.Param() + "."
	case "lte":
		return label + " must be at most " + fe.Param() + "."
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "clubemail", "email":
		return "A valid email address is required."
	case "httpurl":
		return label + " must be a valid http(s) URL."
	case "isodate":
		return label + " must be a date (YYYY-MM-DD)."
	case "clock":
		return label + " must be a time (HH:MM)."
	}
	return label + " is invalid."
}
