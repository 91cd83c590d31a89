package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type createInput struct {
	TenantID       string `json:"tenant_id" validate:"required"`
	StartTimeUTC   string `json:"start_time_utc" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"required"`
}

type listInput struct {
	TenantID string `json:"tenant_id" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateInput turns validator failures into ErrInvalidRequest naming the
// offending fields, e.g. "invalid request: tenant_id, idempotency_key required".
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s required", ErrInvalidRequest, strings.Join(fields, ", "))
}
