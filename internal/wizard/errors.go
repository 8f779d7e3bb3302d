package wizard

import "errors"

var (
	// ErrUnknownStep возвращается, когда шаг отсутствует в графе
	ErrUnknownStep = errors.New("wizard: unknown step")

	// ErrTerminalStep возвращается при попытке уйти вперед с последнего шага
	ErrTerminalStep = errors.New("wizard: step has no next step")

	// ErrRedirectLoop возвращается, если цепочка переходов по fallback не сходится
	ErrRedirectLoop = errors.New("wizard: guard redirect loop")

	// ErrStepNotEditable возвращается, когда шаг для редактирования еще не посещался
	ErrStepNotEditable = errors.New("wizard: step can not be edited")

	// ErrInvalidPatch возвращается при некорректном JSON обновления формы
	ErrInvalidPatch = errors.New("wizard: invalid form patch")
)

// ValidationError ошибка проверки поля шага
// Message можно показывать пользователю
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError создает ошибку проверки с сообщением для пользователя
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
