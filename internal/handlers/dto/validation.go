package dto

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maisaeducacao/students-api/internal/domain/query"
	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

// Validator aplica as regras de validação das requisições
type Validator struct {
	validate *validator.Validate
}

// NewValidator cria o validator com as tags customizadas (notblank, sortfield, sortdir)
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Nome do campo na resposta: json, depois form
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("sortfield", func(fl validator.FieldLevel) bool {
		return query.SortField(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("sortdir", func(fl validator.FieldLevel) bool {
		return query.SortDirection(strings.ToLower(fl.Field().String())).IsValid()
	})

	return &Validator{validate: v}
}

// Struct valida as tags validate de s
func (v *Validator) Struct(s any) []ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{newValidationError("", "default", "")}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, newValidationError(fe.Field(), fe.Tag(), fe.Param()))
	}
	return out
}

// List valida cada elemento de values com tag; o campo é reportado como field[i]
func (v *Validator) List(field string, values []string, tag string) []ValidationError {
	var out []ValidationError
	for i, value := range values {
		if err := v.validate.Var(value, tag); err != nil {
			e := newValidationError(field+"["+strconv.Itoa(i)+"]", tag, "")
			e.Value = value
			out = append(out, e)
		}
	}
	return out
}

// UUID valida um identificador recebido na rota
func (v *Validator) UUID(field, value string) []ValidationError {
	if err := v.validate.Var(value, "required,uuid"); err != nil {
		e := newValidationError(field, "uuid", "")
		e.Value = value
		return []ValidationError{e}
	}
	return nil
}

// CPF valida o documento e usa o tipo da falha como tag
func (v *Validator) CPF(field, raw string) []ValidationError {
	_, err := valueobjects.ValidateCPF(raw)
	if err == nil {
		return nil
	}

	var cpfErr *valueobjects.CPFError
	if !errors.As(err, &cpfErr) {
		return []ValidationError{newValidationError(field, "default", "")}
	}

	return []ValidationError{{
		Field:      field,
		Tag:        string(cpfErr.Kind),
		messageKey: "validation.cpf." + string(cpfErr.Kind),
	}}
}

func newValidationError(field, tag, param string) ValidationError {
	return ValidationError{
		Field:      field,
		Tag:        tag,
		messageKey: "validation." + messageTag(tag),
		params:     map[string]any{"Param": param},
	}
}

var knownTags = map[string]bool{
	"required": true, "notblank": true, "email": true, "min": true, "max": true,
	"gte": true, "lte": true, "uuid": true, "sortfield": true, "sortdir": true, "maxitems": true,
}

func messageTag(tag string) string {
	if knownTags[tag] {
		return tag
	}
	return "default"
}
