package model

// ErrorResponse is the envelope for every error the API returns. The HTTP
// status code is the primary machine-readable signal; Message is a safe,
// human-readable summary with full detail kept in server logs.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the envelope for acknowledgement-style success
// responses (logout, delete).
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}
