package domain

import "time"

type EnquiryStatus string

const (
	EnquiryNew      EnquiryStatus = "new"
	EnquiryRead     EnquiryStatus = "read"
	EnquiryResolved EnquiryStatus = "resolved"
)

// Enquiry is a contact-form submission.
type Enquiry struct {
	ID        string        `json:"id" db:"id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Phone     string        `json:"phone" db:"phone"`
	Message   string        `json:"message" db:"message"`
	Source    string        `json:"source" db:"source"`
	Status    EnquiryStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// Media is an uploaded asset hosted by the media provider.
type Media struct {
	ID        string    `json:"id" db:"id"`
	URL       string    `json:"url" db:"url"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Admin is a back-office user. Secrets never leave the process.
type Admin struct {
	ID             string     `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	Name           string     `json:"name" db:"name"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	ResetTokenHash *string    `json:"-" db:"reset_token_hash"`
	ResetExpiresAt *time.Time `json:"-" db:"reset_expires_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}
