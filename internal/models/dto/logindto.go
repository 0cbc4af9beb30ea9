package dto

type LoginRequestDTO struct {
	ID       string `json:"id" mapstructure:"id" validate:"required,max=64"`
	Password string `json:"password" mapstructure:"password" validate:"required,max=64"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
}

type LogoutResponseDTO struct {
	Message string `json:"message"`
}
