package dto

// WithdrawRequestDTO confirms an account deletion. Agree must be checked.
type WithdrawRequestDTO struct {
	Password string `json:"password" mapstructure:"password" validate:"required,max=64"`
	Reason   string `json:"reason" mapstructure:"reason" validate:"max=500"`
	Agree    bool   `json:"agree" mapstructure:"agree" validate:"required"`
}

type WithdrawResponseDTO struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Reason  string `json:"reason,omitempty"`
}
