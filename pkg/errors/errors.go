package errors

import (
	"fmt"
)

// ErrorCode representa códigos de erro específicos
type ErrorCode string

const (
	// Erros gerais
	ErrCodeUnknown      ErrorCode = "UNKNOWN"
	ErrCodeInternal     ErrorCode = "INTERNAL"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeRateLimit    ErrorCode = "RATE_LIMIT"

	// Erros de células e ranges
	ErrCodeInvalidAddress ErrorCode = "INVALID_ADDRESS"
	ErrCodeInvalidRange   ErrorCode = "INVALID_RANGE"
	ErrCodeOutOfBounds    ErrorCode = "OUT_OF_BOUNDS"

	// Erros da área de transferência
	ErrCodeNoClipboardData    ErrorCode = "NO_CLIPBOARD_DATA"
	ErrCodeCutAlreadyConsumed ErrorCode = "CUT_ALREADY_CONSUMED"
	ErrCodeClipboardHost      ErrorCode = "CLIPBOARD_HOST"

	// Erros de sessão de edição
	ErrCodeNoActiveSession ErrorCode = "NO_ACTIVE_SESSION"

	// Erros de histórico
	ErrCodeHistoryEmpty ErrorCode = "HISTORY_EMPTY"
)

// AppError representa um erro estruturado da aplicação
type AppError struct {
	Code      ErrorCode
	Message   string
	Cause     error
	Component string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is verifica se um erro é de um tipo específico
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New cria um novo erro da aplicação
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Component: "APP",
	}
}

// NewWithCause cria um erro com causa
func NewWithCause(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Component: "APP",
	}
}

// NewWithComponent cria um erro com componente
func NewWithComponent(code ErrorCode, component, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Component: component,
	}
}

// Wrap envolve um erro existente com contexto adicional
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	// Se já for AppError, apenas adicione contexto
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:      code,
			Message:   message,
			Cause:     appErr,
			Component: appErr.Component,
		}
	}

	return &AppError{
		Code:      code,
		Message:   message,
		Cause:     err,
		Component: "APP",
	}
}

// CodeOf extrai o código de um erro, ou UNKNOWN se não for AppError
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeUnknown
}

// Erros específicos de células e ranges
func InvalidAddress(msg string) *AppError {
	return NewWithComponent(ErrCodeInvalidAddress, "GRID", msg)
}

func InvalidRange(msg string) *AppError {
	return NewWithComponent(ErrCodeInvalidRange, "GRID", msg)
}

func OutOfBounds(msg string) *AppError {
	return NewWithComponent(ErrCodeOutOfBounds, "GRID", msg)
}

// Erros específicos da área de transferência
func NoClipboardData(msg string) *AppError {
	return NewWithComponent(ErrCodeNoClipboardData, "CLIPBOARD", msg)
}

func CutAlreadyConsumed(msg string) *AppError {
	return NewWithComponent(ErrCodeCutAlreadyConsumed, "CLIPBOARD", msg)
}

func ClipboardHost(msg string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeClipboardHost,
		Message:   msg,
		Cause:     cause,
		Component: "CLIPBOARD",
	}
}

// Erros específicos de sessão
func NoActiveSession(msg string) *AppError {
	return NewWithComponent(ErrCodeNoActiveSession, "EDIT", msg)
}

// Erros específicos de histórico
func HistoryEmpty(msg string) *AppError {
	return NewWithComponent(ErrCodeHistoryEmpty, "UNDO", msg)
}

// Erros gerais
func InvalidInput(msg string) *AppError {
	return New(ErrCodeInvalidInput, msg)
}

func NotFound(msg string) *AppError {
	return New(ErrCodeNotFound, msg)
}

func RateLimit(msg string) *AppError {
	return New(ErrCodeRateLimit, msg)
}

func Internal(msg string, cause error) *AppError {
	return NewWithCause(ErrCodeInternal, msg, cause)
}
