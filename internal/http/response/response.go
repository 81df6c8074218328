// Package response формирует JSON-ответы API клуба.
//
// Ошибка содержит машинный код (Code) и текст для человека (Error). Клиенты
// ветвятся по коду, текст может меняться. Ошибки валидации дополнительно
// перечисляют нарушенные правила по полям.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Code — машинный код ошибки.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_failed"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeRateLimited        Code = "rate_limited"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
)

// Response — ответ с данными или с ошибкой валидации.
type Response struct {
	Status string       `json:"status"`
	Code   Code         `json:"code,omitempty"`
	Error  string       `json:"error,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
	Data   any          `json:"data,omitempty"`
}

// FieldError — нарушенное правило валидации одного поля.
type FieldError struct {
	Field string `json:"field" example:"pin"`
	Rule  string `json:"rule" example:"numeric"`
}

// ErrorResponse — ответ с ошибкой. Используется и в аннотациях @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Code   Code   `json:"code" example:"invalid_credentials"`
	Error  string `json:"error" example:"invalid credentials"`
}

func OKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error возвращает ответ с кодом и сообщением ошибки.
func Error(code Code, msg string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Code: code, Error: msg}
}

// ValidationError собирает нарушения валидатора в один ответ.
// Имена полей приводятся к нижнему регистру, как в JSON запроса.
func ValidationError(errs validator.ValidationErrors) Response {
	fields := make([]FieldError, 0, len(errs))
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		field := strings.ToLower(err.Field())
		fields = append(fields, FieldError{Field: field, Rule: err.ActualTag()})
		msgs = append(msgs, ruleMessage(field, err.ActualTag()))
	}
	return Response{
		Status: StatusError,
		Code:   CodeValidation,
		Error:  strings.Join(msgs, ", "),
		Fields: fields,
	}
}

func ruleMessage(field, rule string) string {
	switch rule {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "max":
		return fmt.Sprintf("%s is too long", field)
	case "min":
		return fmt.Sprintf("%s is too short", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
