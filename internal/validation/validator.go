// Package validation checks request payloads with go-playground/validator and
// reports failures as Portuguese field messages keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptBRTranslations "github.com/go-playground/validator/v10/translations/pt_BR"
)

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// messages replace the library's pt_BR defaults for the tags used by payloads.
var messages = map[string]string{
	"required": "O campo {0} é obrigatório.",
	"email":    "O campo {0} deve ser um endereço de e-mail válido.",
	"max":      "O campo {0} não pode ser superior a {1} caracteres.",
	"min":      "O campo {0} deve ter pelo menos {1} caracteres.",
	"oneof":    "O campo {0} selecionado é inválido.",
	"gt":       "O campo {0} deve ser maior que {1}.",
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	locale := pt_BR.New()
	trans, _ := ut.New(locale, locale).GetTranslator(locale.Locale())

	if err := ptBRTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic("validation: registering pt_BR translations: " + err.Error())
	}
	for tag, text := range messages {
		registerMessage(validate, trans, tag, text)
	}

	return &Validator{validate: validate, trans: trans}
}

func registerMessage(validate *validator.Validate, trans ut.Translator, tag, text string) {
	err := validate.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		panic("validation: registering " + tag + " message: " + err.Error())
	}
}

// Struct validates s and returns nil when it is valid.
func (v *Validator) Struct(s any) apperr.FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.FieldErrors{"body": {err.Error()}}
	}

	fields := apperr.FieldErrors{}
	for _, fe := range validationErrors {
		fields.Add(fe.Field(), fe.Translate(v.trans))
	}
	return fields
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}
