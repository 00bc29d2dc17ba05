package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	}
}

func strPtr(s string) *string { return &s }

func TestValidator_Location(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	tests := []struct {
		name     string
		location string
		valid    bool
	}{
		{"manhattan lowercase", "manhattan", true},
		{"Manhattan mixed case", "Manhattan", true},
		{"NYC uppercase", "NYC", true},
		{"new york city", "New York City", true},
		{"ny", "ny", true},
		{"unsupported city", "Chicago", false},
		{"unsupported city 2", "Boston", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(&Slots{Location: strPtr(tt.location)})
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Equal(t, SlotLocation, result.ViolatedSlot)
				assert.Contains(t, result.Message, tt.location)
			}
		})
	}
}

func TestValidator_Cuisine(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	tests := []struct {
		cuisine string
		valid   bool
	}{
		{"italian", true},
		{"Italian", true},
		{"JAPANESE", true},
		{"indonesian", true},
		{"klingon", false},
		{"fusion", false},
	}

	for _, tt := range tests {
		t.Run(tt.cuisine, func(t *testing.T) {
			result := v.Validate(&Slots{Cuisine: strPtr(tt.cuisine)})
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Equal(t, SlotCuisine, result.ViolatedSlot)
			}
		})
	}
}

func TestValidator_DiningDate(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	tests := []struct {
		name  string
		date  string
		valid bool
	}{
		{"today literal", "today", true},
		{"Today capitalized", "Today", true},
		{"tomorrow literal", "tomorrow", true},
		{"yesterday always invalid", "yesterday", false},
		{"same day ISO", "2025-03-14", true},
		{"future ISO", "2025-03-20", true},
		{"past ISO", "2025-03-13", false},
		{"malformed", "next friday", false},
		{"malformed numeric", "03/20/2025", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(&Slots{DiningDate: strPtr(tt.date)})
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Equal(t, SlotDiningDate, result.ViolatedSlot)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	today := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

	resolved, ok := ResolveDate("today", today)
	assert.True(t, ok)
	assert.Equal(t, "2025-03-14", resolved)

	resolved, ok = ResolveDate("Tomorrow", today)
	assert.True(t, ok)
	assert.Equal(t, "2025-03-15", resolved)

	_, ok = ResolveDate("yesterday", today)
	assert.False(t, ok)

	resolved, ok = ResolveDate("2025-04-01", today)
	assert.True(t, ok)
	assert.Equal(t, "2025-04-01", resolved)

	_, ok = ResolveDate("soon", today)
	assert.False(t, ok)
}

func TestValidator_DiningTime(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	tests := []struct {
		time  string
		valid bool
	}{
		{"10:00", true},
		{"19:00", true},
		{"23:59", true},
		{"23:00", true},
		{"09:59", false},
		{"00:30", false},
		{"07:15", false},
		{"7pm", false},
		{"half past six", false},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			result := v.Validate(&Slots{DiningTime: strPtr(tt.time)})
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Equal(t, SlotDiningTime, result.ViolatedSlot)
			}
		})
	}
}

func TestValidator_PartySize(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	tests := []struct {
		size  string
		valid bool
	}{
		{"1", true},
		{"4", true},
		{"15", true},
		{"0", false},
		{"16", false},
		{"-3", false},
		{"four", false},
		{"4.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			result := v.Validate(&Slots{PartySize: strPtr(tt.size)})
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Equal(t, SlotPartySize, result.ViolatedSlot)
			}
		})
	}
}

func TestValidator_Email(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	tests := []struct {
		email string
		valid bool
	}{
		{"a@b.com", true},
		{"user.name@example.co", true},
		{"no-at-sign.com", false},
		{"nodot@example", false},
		{"has space@b.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			result := v.Validate(&Slots{Email: strPtr(tt.email)})
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.Equal(t, SlotEmail, result.ViolatedSlot)
			}
		})
	}
}

func TestValidator_AbsentSlotsAreSkipped(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	result := v.Validate(&Slots{})
	assert.True(t, result.Valid)
	assert.Empty(t, result.ViolatedSlot)
	assert.Empty(t, result.Message)
}

func TestValidator_FirstFailureWins(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	// Both location and party size invalid; location is reported first.
	result := v.Validate(&Slots{
		Location:  strPtr("Chicago"),
		PartySize: strPtr("99"),
	})
	assert.False(t, result.Valid)
	assert.Equal(t, SlotLocation, result.ViolatedSlot)
}

func TestValidator_AllSlotsValid(t *testing.T) {
	v := NewValidatorAt(fixedClock())

	result := v.Validate(&Slots{
		Location:   strPtr("Manhattan"),
		Cuisine:    strPtr("Italian"),
		DiningDate: strPtr("today"),
		DiningTime: strPtr("19:00"),
		PartySize:  strPtr("4"),
		Email:      strPtr("a@b.com"),
	})
	assert.True(t, result.Valid)
}
