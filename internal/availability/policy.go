package availability

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/booking_platform/internal/model"
)

// ConflictPolicy решает, когда слот конфликтует с блокировками и записями.
type ConflictPolicy int

const (
	// ConflictExactStart: слот занят, если его начало внутри блокировки или
	// запись начинается в ту же минуту.
	ConflictExactStart ConflictPolicy = iota
	// ConflictOverlap: слот занят, если [start, start+duration) пересекает
	// блокировку или интервал записи.
	ConflictOverlap
)

func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return ConflictExactStart, nil
	case "overlap":
		return ConflictOverlap, nil
	}
	return 0, fmt.Errorf("unknown conflict policy %q", s)
}

func (p ConflictPolicy) String() string {
	switch p {
	case ConflictExactStart:
		return "exact"
	case ConflictOverlap:
		return "overlap"
	}
	return fmt.Sprintf("ConflictPolicy(%d)", int(p))
}

func (p ConflictPolicy) blocked(start, end model.TimeOfDay, blocks []model.BlockedSlot) bool {
	for i := range blocks {
		b := &blocks[i]
		if p == ConflictOverlap {
			if start < b.EndTime && b.StartTime < end {
				return true
			}
			continue
		}
		if b.Contains(start) {
			return true
		}
	}
	return false
}

func (p ConflictPolicy) booked(start, end model.TimeOfDay, appointments []model.Appointment) bool {
	for i := range appointments {
		a := &appointments[i]
		if !a.OccupiesSlot() {
			continue
		}
		at := model.TimeOfDayOf(a.StartsAt)
		if p == ConflictOverlap && a.DurationMinutes > 0 {
			if start < at+model.TimeOfDay(a.DurationMinutes) && at < end {
				return true
			}
			continue
		}
		// Без длительности проверяем только совпадение начала.
		if at == start {
			return true
		}
	}
	return false
}
