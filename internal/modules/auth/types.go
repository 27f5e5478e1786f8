package auth

import "errors"

type RegisterDTO struct {
	Name     string `json:"name"     binding:"required,min=2,max=50"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginDTO struct {
	IDToken string `json:"idToken" binding:"required"`
}

type UpdateProfileDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

type UpdatePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=6"`
}

var (
	ErrEmailTaken    = errors.New("user already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrNoPassword    = errors.New("account has no local password")
	ErrWrongPassword = errors.New("wrong password")
)
