package dto

// CheckIDRequestDTO is the form body of an identifier availability check.
type CheckIDRequestDTO struct {
	ID string `json:"id" mapstructure:"id" validate:"max=64"`
}

// CheckIDResponseDTO is the availability verdict returned to the form.
type CheckIDResponseDTO struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
}
