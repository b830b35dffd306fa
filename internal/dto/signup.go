package dto

type SignupRequest struct {
	Email    string  `json:"email"`
	Mobile   *string `json:"mobile,omitempty"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
}

type SignupResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}
