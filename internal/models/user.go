package models

// User represents an account that owns customers and invoices. The
// two-factor secret is generated once at signup and never rotated.
type User struct {
	BaseModel
	Email           string `gorm:"uniqueIndex" json:"email"`
	PasswordHash    string `json:"-"`
	PhoneNumber     string `json:"phone_number"`
	Name            string `json:"name"`
	TwoFactorSecret string `json:"-"`
}
