package dto

import "time"

type CreateAttendanceDTO struct {
	Student string    `json:"student" binding:"required"`
	Class   string    `json:"class"`
	Date    time.Time `json:"date" binding:"required"`
	Status  string    `json:"status" binding:"required,oneof=present absent late excused"`
	Reason  string    `json:"reason"`
}

type UpdateAttendanceDTO struct {
	Status *string `json:"status" binding:"omitempty,oneof=present absent late excused"`
	Reason *string `json:"reason"`
}
