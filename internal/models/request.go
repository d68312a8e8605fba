package models

type RegisterRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type GenerateRequest struct {
	// Model selects the generation backend: runway_gen4, runway_gen3,
	// veo2 or veo3. Defaults to runway_gen4.
	Model string `json:"model,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
