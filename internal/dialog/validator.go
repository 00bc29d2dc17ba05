package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"dining-concierge/internal/models"
)

var validLocations = []string{"manhattan", "new york", "nyc", "new york city", "ny"}

var validCuisines = []string{
	"chinese", "indian", "italian", "japanese", "mexican",
	"thai", "korean", "arab", "american", "pakistani",
	"greek", "spanish", "turkish", "french", "indonesian",
}

const (
	openingHour = 10
	closingHour = 23

	minPartySize = 1
	maxPartySize = 15
)

// Validator checks the user-supplied slot values one dialog turn at a
// time. Absent slots are skipped, not failed: the engine elicits them on
// later turns. The first violated slot wins; evaluation order is fixed.
type Validator struct {
	now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorAt pins the clock, for deterministic date validation.
func NewValidatorAt(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Validate runs the slot rules over the currently filled slots.
func (v *Validator) Validate(slots *Slots) models.ValidationResult {
	if location := slots.Get(SlotLocation); location != "" {
		if !containsFold(validLocations, location) {
			return models.InvalidResult(SlotLocation,
				fmt.Sprintf("Sorry, we do not provide service in %q. Please enter Manhattan or NYC.", location))
		}
	}

	if cuisine := slots.Get(SlotCuisine); cuisine != "" {
		if !containsFold(validCuisines, cuisine) {
			return models.InvalidResult(SlotCuisine,
				fmt.Sprintf("Sorry, we do not have suggestions for %q. Please choose another cuisine.", cuisine))
		}
	}

	if date := slots.Get(SlotDiningDate); date != "" {
		if result := v.validateDate(date); !result.Valid {
			return result
		}
	}

	if diningTime := slots.Get(SlotDiningTime); diningTime != "" {
		if result := validateTime(diningTime); !result.Valid {
			return result
		}
	}

	if partySize := slots.Get(SlotPartySize); partySize != "" {
		if result := validatePartySize(partySize); !result.Valid {
			return result
		}
	}

	if email := slots.Get(SlotEmail); email != "" {
		if !isPlausibleEmail(email) {
			return models.InvalidResult(SlotEmail,
				"Invalid entry. Please provide a valid email address.")
		}
	}

	return models.ValidResult()
}

// ResolveDate turns "today"/"tomorrow" into a concrete ISO date relative
// to today, and passes ISO dates through unchanged. ok is false for
// anything else, "yesterday" included.
func ResolveDate(value string, today time.Time) (string, bool) {
	switch strings.ToLower(value) {
	case "today":
		return today.Format("2006-01-02"), true
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format("2006-01-02"), true
	case "yesterday":
		return "", false
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return "", false
	}
	return value, true
}

func (v *Validator) validateDate(value string) models.ValidationResult {
	today := v.now()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	lower := strings.ToLower(value)
	if lower == "today" || lower == "tomorrow" {
		return models.ValidResult()
	}
	if lower == "yesterday" {
		return models.InvalidResult(SlotDiningDate,
			`You cannot select a past date. Please enter a valid date, "today", or "tomorrow".`)
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return models.InvalidResult(SlotDiningDate,
			`Invalid date format. Please enter a valid date (YYYY-MM-DD), "today", or "tomorrow".`)
	}
	if parsed.Before(todayDate) {
		return models.InvalidResult(SlotDiningDate,
			`You cannot select a past date. Please enter a valid date, "today", or "tomorrow".`)
	}
	return models.ValidResult()
}

func validateTime(value string) models.ValidationResult {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return models.InvalidResult(SlotDiningTime,
			"Invalid time format. Please enter a valid time in HH:MM format (e.g., 18:30 for 6:30 PM).")
	}
	if hour := parsed.Hour(); hour < openingHour || hour > closingHour {
		return models.InvalidResult(SlotDiningTime,
			"Our business hours are from 10 AM to 11 PM. Please enter a valid time in HH:MM format.")
	}
	return models.ValidResult()
}

func validatePartySize(value string) models.ValidationResult {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return models.InvalidResult(SlotPartySize,
			"Invalid entry. Please enter a valid number for party size.")
	}
	if n < minPartySize || n > maxPartySize {
		return models.InvalidResult(SlotPartySize,
			"Sorry! We accept reservations only for up to 15 people.")
	}
	return models.ValidResult()
}

// isPlausibleEmail is an intentionally weak syntactic check: the address
// is only used as an SES recipient, which performs its own verification.
func isPlausibleEmail(email string) bool {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return false
	}
	return strings.IndexFunc(email, unicode.IsSpace) < 0
}

func containsFold(values []string, candidate string) bool {
	for _, v := range values {
		if strings.EqualFold(v, candidate) {
			return true
		}
	}
	return false
}
