// Package services holds the user registry and the exercise log. Both are
// stateless over an injected store; every store call runs under its own
// timeout so that an unresponsive store surfaces as StoreUnavailable.
package services

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"golang-exercisetracker/apperror"
	"golang-exercisetracker/metrics"
)

const (
	DefaultStoreTimeout = 10 * time.Second

	msgStoreUnavailable = "Internal Server Error"
	msgUserNotFound     = "Invalid user ID"
	msgUsernameTaken    = "Username already taken"
)

// Options carries the collaborators shared by both services. Zero values
// fall back to slog.Default, metrics.Nop and DefaultStoreTimeout.
type Options struct {
	Logger       *slog.Logger
	Metrics      metrics.Recorder
	StoreTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Nop{}
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = DefaultStoreTimeout
	}
	return o
}

var validate = mustNewValidator()

func mustNewValidator() *validator.Validate {
	v, err := newValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// newValidator reports fields by their json names and adds notblank, which
// rejects whitespace-only strings.
func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("register notblank: %w", err)
	}
	return v, nil
}

// validateStruct runs the struct validator and turns the first failure into
// a client-facing ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required", "notblank":
			return apperror.NewValidationError(fmt.Sprintf("%s is required", fe.Field()), err)
		default:
			return apperror.NewValidationError(fmt.Sprintf("%s is invalid", fe.Field()), err)
		}
	}
	return apperror.NewValidationError("invalid input", err)
}

func storeUnavailable(logger *slog.Logger, op string, err error) error {
	logger.Error("store operation failed", slog.String("op", op), slog.Any("error", err))
	return apperror.NewStoreUnavailableError(msgStoreUnavailable, err)
}
