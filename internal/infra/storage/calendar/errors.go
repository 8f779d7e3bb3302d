package calendar

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда для дня недели нет политики
	ErrPolicyNotFound = errors.New("calendar.repository: day policy not found")

	// ErrBlockedDateNotFound возвращается, когда заблокированная дата не найдена
	ErrBlockedDateNotFound = errors.New("calendar.repository: blocked date not found")

	// ErrBlockedDateExists возвращается при повторной блокировке той же даты
	ErrBlockedDateExists = errors.New("calendar.repository: date is already blocked")

	// ErrInvalidSetting возвращается, когда значение настройки не удалось разобрать
	ErrInvalidSetting = errors.New("calendar.repository: invalid setting value")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
