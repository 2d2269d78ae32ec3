package models

import "github.com/google/uuid"

// Customer is a billing recipient owned by exactly one user.
type Customer struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
}
