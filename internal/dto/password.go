package dto

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type SendActivationRequest struct {
	Email string `json:"email"`
}

// MessageResponse is the body of every flow that only reports an outcome.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
