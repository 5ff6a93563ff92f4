package dto

type CreateClassDTO struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug"`
	YearGroup string `json:"yearGroup"`
	Teacher   string `json:"teacher"`
	Capacity  int    `json:"capacity"`
}

type UpdateClassDTO struct {
	Name      *string `json:"name"`
	YearGroup *string `json:"yearGroup"`
	Teacher   *string `json:"teacher"`
	Capacity  *int    `json:"capacity"`
}
