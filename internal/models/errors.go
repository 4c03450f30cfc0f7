package models

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ValidationError is returned when a request fails boundary validation.
type ValidationError struct {
	Label   string
	Details string
}

func (e *ValidationError) Error() string { return e.Label + ": " + e.Details }
