package models

// CheckResponse reports whether the upstream API key is configured without
// exposing more than a short prefix of it.
type CheckResponse struct {
	KeyLoaded bool    `json:"keyLoaded"`
	KeyPrefix *string `json:"keyPrefix"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}
