package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rules reported in ValidationError.Rule.
const (
	RuleRequired = "required"
	RuleType     = "type"
	RuleJSON     = "json"
)

// ValidationError describes one malformed or missing input field.
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects every ValidationError found in one input.
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields, in report order.
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i, ve := range e {
		fields[i] = ve.Field
	}
	return fields
}

// IsValidation reports whether err carries validation errors.
func IsValidation(err error) bool {
	var errs Errors
	return errors.As(err, &errs)
}

// FromError converts validator output (directly or via gin binding) into Errors.
// Other errors become a single body-level error.
func FromError(err error) Errors {
	if err == nil {
		return nil
	}

	var errs Errors
	if errors.As(err, &errs) {
		return errs
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(Errors, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fromFieldError(fe))
		}
		return out
	}

	return Errors{{Field: "body", Rule: RuleJSON, Message: err.Error()}}
}

func fromFieldError(fe validator.FieldError) ValidationError {
	return ValidationError{
		Field:   fe.Field(),
		Rule:    fe.Tag(),
		Message: describe(fe),
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
