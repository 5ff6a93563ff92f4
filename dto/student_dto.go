package dto

import "time"

type CreateStudentDTO struct {
	AdmissionNumber string    `json:"admissionNumber" binding:"required"`
	FirstName       string    `json:"firstName" binding:"required"`
	LastName        string    `json:"lastName" binding:"required"`
	DateOfBirth     time.Time `json:"dateOfBirth" binding:"required"`
	Class           string    `json:"class"`
	GuardianName    string    `json:"guardianName"`
	GuardianPhone   string    `json:"guardianPhone"`
	GuardianEmail   string    `json:"guardianEmail" binding:"omitempty,email"`
	Notes           string    `json:"notes"`
}

type UpdateStudentDTO struct {
	FirstName     *string    `json:"firstName"`
	LastName      *string    `json:"lastName"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
	Class         *string    `json:"class"`
	GuardianName  *string    `json:"guardianName"`
	GuardianPhone *string    `json:"guardianPhone"`
	GuardianEmail *string    `json:"guardianEmail" binding:"omitempty,email"`
	Notes         *string    `json:"notes"`
}
