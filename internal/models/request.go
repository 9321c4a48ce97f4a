package models

type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanumunder"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateSessionRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
