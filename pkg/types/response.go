package types

// ErrorBody is the failure shape shared by every endpoint.
type ErrorBody struct {
	Error string `json:"error"`
}

// WebhookAck acknowledges a processed (or deliberately ignored) webhook.
type WebhookAck struct {
	Received bool `json:"received"`
}

// SuccessAck acknowledges a user-initiated mutation.
type SuccessAck struct {
	Success bool `json:"success"`
}
