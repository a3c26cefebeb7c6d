package ledger

import (
	"errors"
	"fmt"
)

// Ошибки предусловий: указывают на нарушение инварианта или вызов
// операции в недопустимом состоянии, а не на ошибку пользователя.
var (
	ErrNotAuthenticated     = errors.New("you must be signed in")
	ErrNoActiveProfile      = errors.New("no active profile selected")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrLastProfile          = errors.New("at least one profile must exist")
	ErrOtherCategoryMissing = errors.New("required 'Other' category does not exist")
)

// ValidationError — исправимая вызывающей стороной ошибка ввода (пустое имя,
// неположительная сумма, дубликат категории). Слой представления показывает
// её рядом с полем ввода, не прибегая к общему обработчику сбоев.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation сообщает, является ли ошибка ошибкой валидации ввода.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
