package dto

// UserSignupRequestDTO mirrors the fields of the signup form.
// Emptiness and password equality are checked by form.Validate, the tags only bound lengths.
type UserSignupRequestDTO struct {
	ID            string `json:"id" mapstructure:"id" validate:"required,max=64"`
	Password      string `json:"password" mapstructure:"password" validate:"max=64"`
	PasswordCheck string `json:"password_check" mapstructure:"password_check" validate:"max=64"`
	Name          string `json:"name" mapstructure:"name" validate:"max=64"`
	Email         string `json:"email" mapstructure:"email" validate:"max=254"`
	Terms         bool   `json:"terms" mapstructure:"terms"`
}

type UserSignupResponseDTO struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}
