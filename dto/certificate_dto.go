package dto

import "time"

type CreateCertificateDTO struct {
	Staff     string     `json:"staff" binding:"required"`
	Title     string     `json:"title" binding:"required"`
	Issuer    string     `json:"issuer"`
	IssuedAt  time.Time  `json:"issuedAt" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type UpdateCertificateDTO struct {
	Title     *string    `json:"title"`
	Issuer    *string    `json:"issuer"`
	IssuedAt  *time.Time `json:"issuedAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}
