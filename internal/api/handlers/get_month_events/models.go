package get_month_events

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// ParseMonth парсит месяц в формате YYYY-MM
func ParseMonth(month string) (time.Time, error) {
	return time.Parse(domain.MonthFormat, month)
}
