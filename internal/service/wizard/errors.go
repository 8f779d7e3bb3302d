package wizard

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("wizard.service: session not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("wizard.service: invalid input data")

	// ErrInvalidTransition возвращается, когда переход с текущего шага невозможен
	ErrInvalidTransition = errors.New("wizard.service: invalid transition")

	// ErrSlotsUnavailable возвращается, когда не удалось получить свободные слоты
	ErrSlotsUnavailable = errors.New("wizard.service: could not fetch slots")

	// ErrBookingFailed возвращается, когда бронирование не удалось подтвердить
	// Пользователь может повторить попытку
	ErrBookingFailed = errors.New("wizard.service: booking failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("wizard.service: internal error")
)
