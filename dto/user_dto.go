package dto

type CreateUserDTO struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Pin      string `json:"pin" binding:"required,pin"`
	// Role is the role name; resolved to a reference server-side.
	Role string `json:"role"`
}

type UpdateUserDTO struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type ChangeMyPasswordDTO struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}
