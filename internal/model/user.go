package model

import (
	"strings"
	"time"
	"unicode"
)

// DefaultWorkoutSplit is assigned to every new user.
func DefaultWorkoutSplit() map[string]string {
	return map[string]string{
		"Sunday":    "Rest",
		"Monday":    "Chest",
		"Tuesday":   "Back",
		"Wednesday": "Legs",
		"Thursday":  "Shoulders",
		"Friday":    "Arms",
		"Saturday":  "Rest",
	}
}

func IsWeekday(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == day {
			return true
		}
	}
	return false
}

// ProteinGrams reads the leading integer of a free-text protein value,
// e.g. "25g" -> 25, " 12 grams" -> 12, "n/a" -> 0.
func ProteinGrams(protein string) int {
	s := strings.TrimLeftFunc(protein, unicode.IsSpace)
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
