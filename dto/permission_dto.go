package dto

type CreatePermissionDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Module      string `json:"module" binding:"required"`
	Action      string `json:"action" binding:"required"`
}

type UpdatePermissionDTO struct {
	Description *string `json:"description"`
	Module      *string `json:"module"`
	Action      *string `json:"action"`
}
