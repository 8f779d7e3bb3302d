package get_available_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrAvailabilityUnresolvable возвращается, когда не удалось прочитать политику или занятость дня
	// Для отображения день считается недоступным
	ErrAvailabilityUnresolvable = errors.New("get_available_slots: could not fetch slots")
)
