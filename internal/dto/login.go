package dto

type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expiresIn"`
	User      *UserResponse `json:"user"`
}
