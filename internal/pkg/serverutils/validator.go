package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"symptom-checker-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts the first failure
// into a field-level validation error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		return apperror.Validation(field, fmt.Sprintf("field %s is %s", field, verrs[0].Tag()))
	}

	return apperror.Validation("", "invalid request body")
}
