package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrUnknown             = errors.New("unknown error")
)

// ValidationError ошибка валидации входных данных с привязкой к полю и модели.
// Отдается клиенту как есть, человекочитаемым сообщением.
type ValidationError struct {
	Model   string
	Field   string
	Message string
}

func NewValidationError(model, field, message string) error {
	return &ValidationError{Model: model, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Model, e.Field, e.Message)
}

// ErrAllocationUnresolvable юзера нельзя создать: allocation не передан явно
// и у организации нет default_allocation.
var ErrAllocationUnresolvable = NewValidationError(
	"user", "allocation",
	"allocation is required when the organization has no default allocation",
)

// ErrOrganizationNotCreatable организация названа по имени, не существует,
// и allocation для создания дефолта не передан. Молчаливого создания не происходит.
var ErrOrganizationNotCreatable = NewValidationError(
	"user", "organization",
	"organization does not exist; cannot create without allocation value",
)
