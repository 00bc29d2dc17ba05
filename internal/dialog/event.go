// Package dialog implements the fulfillment side of the concierge bot:
// the event/response envelope exchanged with the external dialog engine,
// slot validation, and intent dispatch. The dialog state machine itself
// (intent recognition, slot elicitation order) is owned by the engine.
package dialog

import "encoding/json"

// Intent names form a closed set; anything else is rejected by the
// dispatcher with an UNSUPPORTED_INTENT error.
const (
	IntentDiningSuggestions = "DiningSuggestionsIntent"
	IntentThankYou          = "ThankYouIntent"
	IntentGreeting          = "GreetingIntent"
)

// Invocation sources. Anything other than a dialog turn is treated as
// fulfillment, matching the engine's default.
const (
	SourceDialogCodeHook = "DialogCodeHook"
	SourceFulfillment    = "FulfillmentCodeHook"
)

// Slot names as the dialog engine spells them.
const (
	SlotLocation   = "Location"
	SlotCuisine    = "Cuisine"
	SlotDiningDate = "DiningDate"
	SlotDiningTime = "DiningTime"
	SlotPartySize  = "PartySize"
	SlotEmail      = "Email"
)

// Dialog action types and fulfillment states.
const (
	ActionElicitSlot = "ElicitSlot"
	ActionDelegate   = "Delegate"
	ActionClose      = "Close"

	FulfillmentStateFulfilled = "Fulfilled"
	FulfillmentStateFailed    = "Failed"
)

// Event is the inbound request from the dialog engine.
type Event struct {
	MessageVersion    string            `json:"messageVersion,omitempty"`
	InvocationSource  string            `json:"invocationSource"`
	UserID            string            `json:"userId,omitempty"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	CurrentIntent     Intent            `json:"currentIntent"`
}

type Intent struct {
	Name               string `json:"name"`
	Slots              Slots  `json:"slots"`
	ConfirmationStatus string `json:"confirmationStatus,omitempty"`
}

// Slots carries the six request fields. Pointer fields distinguish a slot
// the user has not filled yet (null on the wire) from an empty string, and
// let a cleared slot serialize back as null when re-eliciting.
type Slots struct {
	Location   *string `json:"Location"`
	Cuisine    *string `json:"Cuisine"`
	DiningDate *string `json:"DiningDate"`
	DiningTime *string `json:"DiningTime"`
	PartySize  *string `json:"PartySize"`
	Email      *string `json:"Email"`
}

// Get returns the slot value by name, or "" when the slot is unfilled.
func (s *Slots) Get(name string) string {
	var v *string
	switch name {
	case SlotLocation:
		v = s.Location
	case SlotCuisine:
		v = s.Cuisine
	case SlotDiningDate:
		v = s.DiningDate
	case SlotDiningTime:
		v = s.DiningTime
	case SlotPartySize:
		v = s.PartySize
	case SlotEmail:
		v = s.Email
	}
	if v == nil {
		return ""
	}
	return *v
}

// Clear unsets the slot by name so the engine re-elicits it.
func (s *Slots) Clear(name string) {
	switch name {
	case SlotLocation:
		s.Location = nil
	case SlotCuisine:
		s.Cuisine = nil
	case SlotDiningDate:
		s.DiningDate = nil
	case SlotDiningTime:
		s.DiningTime = nil
	case SlotPartySize:
		s.PartySize = nil
	case SlotEmail:
		s.Email = nil
	}
}

// Response is the outbound directive for the dialog engine.
type Response struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}

type DialogAction struct {
	Type             string   `json:"type"`
	IntentName       string   `json:"intentName,omitempty"`
	Slots            *Slots   `json:"slots,omitempty"`
	SlotToElicit     string   `json:"slotToElicit,omitempty"`
	FulfillmentState string   `json:"fulfillmentState,omitempty"`
	Message          *Message `json:"message,omitempty"`
}

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

func plainText(content string) *Message {
	return &Message{ContentType: "PlainText", Content: content}
}

// ElicitSlot prompts the user to supply (or correct) a single slot.
func ElicitSlot(sessionAttributes map[string]string, intentName string, slots *Slots, slotToElicit, message string) *Response {
	return &Response{
		SessionAttributes: sessionAttributes,
		DialogAction: DialogAction{
			Type:         ActionElicitSlot,
			IntentName:   intentName,
			Slots:        slots,
			SlotToElicit: slotToElicit,
			Message:      plainText(message),
		},
	}
}

// Delegate hands control back to the dialog engine.
func Delegate(sessionAttributes map[string]string, slots *Slots) *Response {
	return &Response{
		SessionAttributes: sessionAttributes,
		DialogAction: DialogAction{
			Type:  ActionDelegate,
			Slots: slots,
		},
	}
}

// Close ends the conversation with a final message.
func Close(sessionAttributes map[string]string, fulfillmentState, message string) *Response {
	return &Response{
		SessionAttributes: sessionAttributes,
		DialogAction: DialogAction{
			Type:             ActionClose,
			FulfillmentState: fulfillmentState,
			Message:          plainText(message),
		},
	}
}

// ParseEvent decodes an inbound dialog event.
func ParseEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
