package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессии нет или истек TTL
	ErrSessionNotFound = errors.New("session.cache: session not found")

	// ErrEncode возвращается при ошибке сериализации состояния
	ErrEncode = errors.New("session.cache: failed to encode session")

	// ErrDecode возвращается при ошибке чтения сохраненного состояния
	ErrDecode = errors.New("session.cache: failed to decode session")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("session.cache: redis error")
)
