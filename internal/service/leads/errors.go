package leads

import "errors"

var (
	// ErrLeadNotFound возвращается, когда лид не найден
	ErrLeadNotFound = errors.New("leads.service: lead not found")

	// ErrLeadNotDraft возвращается при попытке изменить подтвержденный лид
	ErrLeadNotDraft = errors.New("leads.service: lead is no longer a draft")

	// ErrAlreadyBooked возвращается при повторном подтверждении
	ErrAlreadyBooked = errors.New("leads.service: lead is already booked")

	// ErrBookingRejected возвращается, когда выбранный день или слот больше недоступен
	ErrBookingRejected = errors.New("leads.service: booking rejected")

	// ErrInvalidPromoCode возвращается для неизвестного или просроченного промокода
	ErrInvalidPromoCode = errors.New("leads.service: invalid promo code")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("leads.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("leads.service: internal error")
)
