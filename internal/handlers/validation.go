package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"slidecast-backend/internal/models"
)

// bcrypt rejects passwords longer than 72 bytes, so the upper bound is in bytes.
const (
	minPasswordLength = 8
	maxPasswordBytes  = 72
)

var (
	registerOnce  sync.Once
	alphanumUnder = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// RegisterValidators installs the custom binding tags used by the request models.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("password", validatePassword)
		_ = v.RegisterValidation("alphanumunder", func(fl validator.FieldLevel) bool {
			return alphanumUnder.MatchString(fl.Field().String())
		})
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			return jsonName(f.Tag.Get("json"))
		})
	})
}

// validatePassword requires at least 8 characters, at most 72 bytes, and at
// least one letter and one digit.
func validatePassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if utf8.RuneCountInString(pw) < minPasswordLength || len(pw) > maxPasswordBytes {
		return false
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func jsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// bindingErrors flattens a bind failure into per-field messages. Malformed JSON
// has no field and is reported against "body".
func bindingErrors(err error) []models.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []models.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "alphanumunder":
		return "may only contain letters, digits and underscores"
	case "password":
		return fmt.Sprintf("must be at least %d characters, at most %d bytes, and contain a letter and a digit", minPasswordLength, maxPasswordBytes)
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
