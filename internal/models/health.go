package models

type HealthResponse struct {
	Status string `json:"status"`
}

// DiagnosticsResponse reports whether a backend credential is configured.
// Only the presence and length of the key are exposed.
type DiagnosticsResponse struct {
	Status        string `json:"status"`
	APIKeyPresent bool   `json:"apiKeyPresent"`
	APIKeyLength  int    `json:"apiKeyLength"`
}
