package promotions

import "errors"

var (
	// ErrUnknownCode возвращается, когда промокода нет в таблице
	ErrUnknownCode = errors.New("promotions: unknown promo code")

	// ErrExpiredCode возвращается для просроченного промокода
	ErrExpiredCode = errors.New("promotions: promo code expired")
)
