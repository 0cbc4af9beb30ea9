package dto

// HealthResponseDTO reports whether the service can reach its database.
type HealthResponseDTO struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
