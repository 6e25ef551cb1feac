package utils

import (
    "errors"
    "fmt"
    "strings"

    "github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo.  Assign it to
// e.Validator and call c.Validate(&req) after c.Bind.
type RequestValidator struct {
    v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
    return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
    return rv.v.Struct(i)
}

// ValidationDetails flattens validator errors into client-facing messages
// such as "email must be a valid email".  Non-validation errors yield a
// single generic entry.
func ValidationDetails(err error) []string {
    var ve validator.ValidationErrors
    if !errors.As(err, &ve) {
        return []string{"invalid request"}
    }
    out := make([]string, 0, len(ve))
    for _, fe := range ve {
        field := strings.ToLower(fe.Field())
        switch fe.Tag() {
        case "required":
            out = append(out, field+" is required")
        case "email":
            out = append(out, field+" must be a valid email")
        case "min":
            out = append(out, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
        case "max":
            out = append(out, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
        default:
            out = append(out, fmt.Sprintf("%s failed %s", field, fe.Tag()))
        }
    }
    return out
}
