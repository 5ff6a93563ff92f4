package dto

type CreateRoleDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
	// Permissions are canonical permission names; the server embeds
	// snapshots of the current definitions.
	Permissions []string `json:"permissions"`
}

type UpdateRoleDTO struct {
	Description *string `json:"description"`
	IsDefault   *bool   `json:"isDefault"`
	// Permissions replaces the embedded list wholesale.
	Permissions []string `json:"permissions" binding:"required"`
	// Version must match the version the caller read; stale writes 409.
	Version int64 `json:"version"`
}
