package confirm_booking

import "github.com/m04kA/SMC-CleaningBooking/pkg/types"

// containsTime проверяет, что время входит в сетку слотов
func containsTime(grid []types.TimeString, t types.TimeString) bool {
	for _, slot := range grid {
		if slot == t {
			return true
		}
	}
	return false
}
