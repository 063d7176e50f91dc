package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tienda-console/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// report fields by their JSON name, which is what the forms submit
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// DefaultLang is the language of user facing messages
const DefaultLang = "es"

// errorMessages maps languages to validation tags to messages
var errorMessages = map[string]map[string]string{
	"es": {
		"required": "El campo '%s' es obligatorio.",
		"email":    "El campo '%s' debe ser un correo electrónico válido.",
		"min":      "El campo '%s' debe tener al menos %s caracteres.",
		"max":      "El campo '%s' no puede superar %s caracteres.",
		"gte":      "El campo '%s' debe ser mayor o igual a %s.",
		"lte":      "El campo '%s' debe ser menor o igual a %s.",
		"gt":       "El campo '%s' debe ser mayor que %s.",
		"oneof":    "El campo '%s' debe ser uno de: %s.",
		"eqfield":  "El campo '%s' debe coincidir con '%s'.",
	},
	"en": {
		"required": "The field '%s' is required.",
		"email":    "The field '%s' must be a valid email address.",
		"min":      "The field '%s' must be at least %s characters long.",
		"max":      "The field '%s' must be no longer than %s characters.",
		"gte":      "The field '%s' must be greater than or equal to %s.",
		"lte":      "The field '%s' must be less than or equal to %s.",
		"gt":       "The field '%s' must be greater than %s.",
		"oneof":    "The field '%s' must be one of: %s.",
		"eqfield":  "The field '%s' must match '%s'.",
	},
}

// parseMessage builds a friendly message for one failed rule
func parseMessage(field string, e validator.FieldError, lang string) string {
	if msgs, ok := errorMessages[lang]; ok {
		if msg, ok := msgs[e.Tag()]; ok {
			switch strings.Count(msg, "%s") {
			case 1:
				return fmt.Sprintf(msg, field)
			case 2:
				param := e.Param()
				if e.Tag() == "eqfield" {
					param = jsonName(e)
				}
				if e.Kind() != reflect.String && (e.Tag() == "min" || e.Tag() == "max") {
					return fmt.Sprintf(errorMessages[lang]["gte"], field, param)
				}
				return fmt.Sprintf(msg, field, param)
			}
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
}

// jsonName resolves the JSON name of the field referenced by eqfield
func jsonName(e validator.FieldError) string {
	param := e.Param()
	return strings.ToLower(param[:1]) + param[1:]
}

// fieldPath is the JSON path of the failed field without the root type,
// e.g. "caracteristicas[1].titulo"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// Struct validates s and returns a *domain.ValidationError keyed by JSON field names, or nil
func Struct(s any, lang ...string) error {
	l := DefaultLang
	if len(lang) > 0 && lang[0] != "" {
		l = lang[0]
	}

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		name := fieldPath(e)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = parseMessage(name, e, l)
	}
	return &domain.ValidationError{Fields: fields}
}
