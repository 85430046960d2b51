// Package validation checks request bodies against their validate struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/iynfluencer/creator-service/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// messages maps a validation tag to its message. %[1]s is the field, %[2]s the tag parameter.
var messages = map[string]string{
	"required": "%[1]s is required.",
	"min":      "%[1]s must be at least %[2]s.",
	"max":      "%[1]s must be at most %[2]s.",
	"gte":      "%[1]s must be greater than or equal to %[2]s.",
	"lte":      "%[1]s must be less than or equal to %[2]s.",
	"gt":       "%[1]s must be greater than %[2]s.",
	"lt":       "%[1]s must be less than %[2]s.",
	"oneof":    "%[1]s must be one of [%[2]s].",
}

// FieldErrors maps JSON field names to messages.
type FieldErrors map[string]string

// Struct validates s. It returns nil when s is valid, and otherwise a
// validation AppError naming the first offending field in field order.
func Struct(s any) error {
	fields, err := Check(s)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return apperrors.ValidationField(keys[0], fields[keys[0]])
}

// Check returns every failing field. The error is non-nil only when s cannot
// be validated at all, for example when it is not a struct.
func Check(s any) (FieldErrors, error) {
	err := instance().Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "request cannot be validated")
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = message(name, fe)
	}
	return out, nil
}

// fieldPath drops the struct name from the namespace: "CreateJobRequest.category[0]" becomes "category[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s).", field, fe.Tag())
}
