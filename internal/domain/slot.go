package domain

import (
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// DayAvailability represents the availability of a single calendar day
type DayAvailability struct {
	Open              bool
	Slots             []types.TimeString
	Reason            string
	EffectiveCapacity int
	BookedCount       int
}

// IsFull returns true if the day is open but has no capacity left
func (a *DayAvailability) IsFull() bool {
	return a.Open && a.BookedCount >= a.EffectiveCapacity
}

// HasSlot returns true if the time is among the offered slots
func (a *DayAvailability) HasSlot(t types.TimeString) bool {
	for _, s := range a.Slots {
		if s == t {
			return true
		}
	}
	return false
}

// FullyBookedReason формирует причину для исчерпанной вместимости
func FullyBookedReason(capacity int) string {
	return fmt.Sprintf(ReasonFullyBookedFormat, capacity)
}

// FreeSlots убирает из сетки слоты, время которых совпадает с уже занятым
// Порядок сетки сохраняется
func FreeSlots(grid []types.TimeString, taken []types.TimeString) []types.TimeString {
	busy := make(map[types.TimeString]struct{}, len(taken))
	for _, t := range taken {
		busy[t] = struct{}{}
	}

	free := make([]types.TimeString, 0, len(grid))
	for _, slot := range grid {
		if _, ok := busy[slot]; ok {
			continue
		}
		free = append(free, slot)
	}
	return free
}
