package domain

// Default calendar values
const (
	DefaultStartTime     = "09:00"
	DefaultEndTime       = "17:00"
	DefaultDailyCapacity = 3
)

// FallbackDailyCapacity используется, когда вместимость дня не задана
const FallbackDailyCapacity = 3

// SlotStepMinutes шаг сетки слотов, одинаковый для всех дней
const SlotStepMinutes = 60

// CapacityOverrideKey ключ глобального лимита в таблице settings
const CapacityOverrideKey = "max_capacity_per_day"

// Причины недоступности дня
const (
	ReasonClosed            = "Closed"
	ReasonFullyBookedFormat = "Fully Booked (Daily capacity of %d reached)"
)

// Business validation constants
const (
	MaxBlockedReasonLength = 255
	MaxDailyCapacity       = 100
	MaxExtras              = 20
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// CountedStatuses статусы лидов, которые занимают вместимость дня
var CountedStatuses = []LeadStatus{
	LeadStatusDraft,
	LeadStatusBooked,
}
