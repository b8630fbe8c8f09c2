// Package serp holds the client-facing contract of the gateway: request
// validation and the reshaping of provider responses.
package serp

// AutoCompleteRequest is the inbound body of /autocomplete.
type AutoCompleteRequest struct {
	Query string `json:"query"`
}

// SerpRequest is the part of the /hotels body the gateway reads. The full
// body is forwarded to the provider unchanged.
type SerpRequest struct {
	Currency string `json:"currency"`
}

// Status is the outcome carried by a StatusMessage.
type Status string

const (
	StatusOK          Status = "ok"
	StatusError       Status = "error"
	StatusUnavailable Status = "unavailable"
)

// StatusMessage is the uniform {status, message} envelope.
type StatusMessage struct {
	Status  Status `json:"status"`
	Message any    `json:"message"`
}

// HotelSummary is the priced hotel returned by /hotels.
type HotelSummary struct {
	HotelID  string  `json:"hotelID"`
	MinPrice float64 `json:"minPrice"`
	Currency string  `json:"currency"`
}

// AutoCompleteResponse wraps the provider's data field.
type AutoCompleteResponse struct {
	Data any `json:"data"`
}

// Unavailable builds an "unavailable" envelope.
func Unavailable(reason string) StatusMessage {
	return StatusMessage{Status: StatusUnavailable, Message: reason}
}

// Error builds an "error" envelope.
func Error(message string) StatusMessage {
	return StatusMessage{Status: StatusError, Message: message}
}
