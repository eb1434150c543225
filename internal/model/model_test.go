package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProteinGrams(t *testing.T) {
	cases := map[string]int{
		"25g":       25,
		" 12 grams": 12,
		"30":        30,
		"abc":       0,
		"":          0,
		"7.5g":      7,
	}
	for in, want := range cases {
		assert.Equal(t, want, ProteinGrams(in), "input %q", in)
	}
}

func TestParseDeliveryMethod(t *testing.T) {
	m, ok := ParseDeliveryMethod("")
	assert.True(t, ok)
	assert.Equal(t, DeliveryMethodDelivery, m)

	m, ok = ParseDeliveryMethod("Pickup")
	assert.True(t, ok)
	assert.Equal(t, DeliveryMethodPickup, m)

	_, ok = ParseDeliveryMethod("Drone")
	assert.False(t, ok)
}

func TestIsWeekday(t *testing.T) {
	assert.True(t, IsWeekday("Monday"))
	assert.False(t, IsWeekday("monday"))
	assert.False(t, IsWeekday("Funday"))
	assert.Len(t, DefaultWorkoutSplit(), 7)
}
