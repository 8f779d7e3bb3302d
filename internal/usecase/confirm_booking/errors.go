package confirm_booking

import "errors"

var (
	// ErrLeadNotFound возвращается, когда лид не найден
	ErrLeadNotFound = errors.New("confirm_booking: lead not found")

	// ErrAlreadyBooked возвращается при повторном подтверждении (допустим только переход draft -> booked)
	ErrAlreadyBooked = errors.New("confirm_booking: lead is already booked")

	// ErrLeadAbandoned возвращается для брошенного лида
	ErrLeadAbandoned = errors.New("confirm_booking: lead is abandoned")

	// ErrIncomplete возвращается, когда у лида не выбраны дата и время
	ErrIncomplete = errors.New("confirm_booking: lead has no service date or time")

	// ErrDateUnavailable возвращается, когда день заблокирован, выходной или вместимость исчерпана
	ErrDateUnavailable = errors.New("confirm_booking: date is not available")

	// ErrInvalidTimeSlot возвращается, когда время не входит в сетку слотов дня
	ErrInvalidTimeSlot = errors.New("confirm_booking: time is outside of the slot grid")

	// ErrSlotTaken возвращается, когда слот уже занят другим лидом
	ErrSlotTaken = errors.New("confirm_booking: slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
