package dto

import "time"

type CreateIncidentDTO struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Severity    string    `json:"severity" binding:"required,oneof=low medium high"`
	Students    []string  `json:"students"`
	OccurredAt  time.Time `json:"occurredAt" binding:"required"`
}

type UpdateIncidentDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Severity    *string `json:"severity" binding:"omitempty,oneof=low medium high"`
	Status      *string `json:"status" binding:"omitempty,oneof=open investigating resolved"`
}

type AddIncidentNoteDTO struct {
	Text string `json:"text" binding:"required"`
}
