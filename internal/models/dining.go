package models

// DiningRequest is the canonical unit of work handed from the dialog
// fulfillment handler to the suggestion worker through the queue. Field
// names match the queue wire format; values are carried as the dialog
// engine produced them (slot values are strings, PartySize included).
type DiningRequest struct {
	Location   string `json:"Location"`
	Cuisine    string `json:"Cuisine" validate:"required"`
	DiningDate string `json:"DiningDate"`
	DiningTime string `json:"DiningTime"`
	PartySize  string `json:"PartySize"`
	Email      string `json:"Email" validate:"required"`
}

// ValidationResult reports the outcome of slot validation for one dialog
// turn. When Valid is false, ViolatedSlot names the slot to re-elicit and
// Message carries the user-facing explanation.
type ValidationResult struct {
	Valid        bool   `json:"isValid"`
	ViolatedSlot string `json:"violatedSlot,omitempty"`
	Message      string `json:"message,omitempty"`
}

func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

func InvalidResult(slot, message string) ValidationResult {
	return ValidationResult{Valid: false, ViolatedSlot: slot, Message: message}
}
