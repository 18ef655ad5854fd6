package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Таксономия ошибок ядра. Все ошибки удаленных вызовов конвертируются
// в один из этих типов на границе сервиса и дальше не пробрасываются.

// ValidationError - локальная ошибка, сетевой вызов не делался.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// TransientFetchError - не удалось получить данные (расписание, список записей).
// Восстановимая: показываем пустой результат и даем повторить.
type TransientFetchError struct {
	Op  string
	Err error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// RemoteCallError - ответ API с ошибкой. Message - текст сервера как есть,
// адаптер его не переводит и не переписывает.
type RemoteCallError struct {
	StatusCode int
	Message    string
}

func (e *RemoteCallError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("clinic api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("clinic api: unexpected status code %d", e.StatusCode)
}

// CommitRejected - сервер отклонил create/update, например слот заполнился
// между загрузкой расписания и подтверждением. Message - текст сервера как есть.
type CommitRejected struct {
	Message string
	Err     error
}

func (e *CommitRejected) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "запись не прошла, попробуйте другую сессию"
}

func (e *CommitRejected) Unwrap() error {
	return e.Err
}

// PartialFailure - при пересоздании delete прошел, а create упал.
// Старой записи больше нет, новой не появилось. Единственная ошибка,
// после которой состояние НЕ сохранено, пользователь должен записаться заново.
type PartialFailure struct {
	OldAppointmentID uuid.UUID
	Err              error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("старая запись %s отменена, но новая не создана: %v", e.OldAppointmentID, e.Err)
}

func (e *PartialFailure) Unwrap() error {
	return e.Err
}
