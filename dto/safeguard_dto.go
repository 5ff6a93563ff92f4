package dto

type CreateSafeguardDTO struct {
	Student  string `json:"student" binding:"required"`
	Category string `json:"category" binding:"required"`
	Concern  string `json:"concern" binding:"required"`
}

type UpdateSafeguardDTO struct {
	Category    *string `json:"category"`
	Concern     *string `json:"concern"`
	ActionTaken *string `json:"actionTaken"`
	Status      *string `json:"status" binding:"omitempty,oneof=open monitoring closed"`
}
