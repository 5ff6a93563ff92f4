package dto

import "time"

type CreateStaffDTO struct {
	FirstName  string    `json:"firstName" binding:"required"`
	LastName   string    `json:"lastName" binding:"required"`
	Email      string    `json:"email" binding:"required,email"`
	Phone      string    `json:"phone"`
	JobTitle   string    `json:"jobTitle" binding:"required"`
	Department string    `json:"department"`
	StartDate  time.Time `json:"startDate" binding:"required"`
}

type UpdateStaffDTO struct {
	FirstName  *string    `json:"firstName"`
	LastName   *string    `json:"lastName"`
	Phone      *string    `json:"phone"`
	JobTitle   *string    `json:"jobTitle"`
	Department *string    `json:"department"`
	EndDate    *time.Time `json:"endDate"`
	DBSChecked *bool      `json:"dbsChecked"`
	DBSCheckAt *time.Time `json:"dbsCheckAt"`
}
