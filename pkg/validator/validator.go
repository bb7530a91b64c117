package validator

import (
	"fmt"
	"regexp"
	"strings"

	"sheet-engine/pkg/ref"
)

// ValidationError representa um erro de validação
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator struct principal
type Validator struct {
	errors []ValidationError
}

// NewValidator cria um novo validador
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// AddError adiciona um erro de validação
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors retorna se há erros de validação
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors retorna todos os erros de validação
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Error retorna o primeiro erro ou nil
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return v.errors[0]
}

// Clear limpa todos os erros
func (v *Validator) Clear() {
	v.errors = make([]ValidationError, 0)
}

// ValidateAddress valida um endereço de célula dentro dos limites
func (v *Validator) ValidateAddress(field string, addr ref.Address, maxRows, maxCols int) {
	if addr.Row < 0 || addr.Col < 0 {
		v.AddError(field, "linha e coluna devem ser não negativas")
		return
	}
	if addr.Row >= maxRows || addr.Col >= maxCols {
		v.AddError(field, fmt.Sprintf("endereço (%d,%d) fora dos limites %dx%d", addr.Row, addr.Col, maxRows, maxCols))
	}
}

// ValidateRange valida um range: pontas não negativas e normalizáveis,
// dentro dos limites do grid.
func (v *Validator) ValidateRange(field string, rg ref.Range, maxRows, maxCols int) {
	n := rg.Normalize()
	if n.StartRow < 0 || n.StartCol < 0 {
		v.AddError(field, "range com ponta negativa")
		return
	}
	if n.EndRow >= maxRows || n.EndCol >= maxCols {
		v.AddError(field, fmt.Sprintf("range %s fora dos limites %dx%d", n.String(), maxRows, maxCols))
	}
}

var a1Pattern = regexp.MustCompile(`^\$?[A-Za-z]{1,3}\$?[0-9]+$`)

// ValidateA1 valida a forma de uma referência A1, com âncoras opcionais
func (v *Validator) ValidateA1(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "é obrigatório")
		return
	}
	for _, part := range strings.SplitN(value, ":", 2) {
		if !a1Pattern.MatchString(strings.TrimSpace(part)) {
			v.AddError(field, fmt.Sprintf("referência A1 inválida: %q", value))
			return
		}
	}
}

// ValidateString valida uma string genérica
func (v *Validator) ValidateString(field, value string, required bool, minLength, maxLength int) {
	if required && strings.TrimSpace(value) == "" {
		v.AddError(field, "é obrigatório")
		return
	}

	if len(value) > maxLength {
		v.AddError(field, fmt.Sprintf("deve ter no máximo %d caracteres", maxLength))
	}

	if minLength > 0 && len(value) < minLength {
		v.AddError(field, fmt.Sprintf("deve ter no mínimo %d caracteres", minLength))
	}
}
