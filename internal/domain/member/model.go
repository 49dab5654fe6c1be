package member

import "time"

// Member types mirror the association's two access levels.
const (
	TypeAdmin = "admin"
	TypeUser  = "user"
)

// Member represents an association member (table ifa_user).
type Member struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Birthdate    string    `json:"birthdate,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Type         string    `json:"type"`
	Status       bool      `json:"status"`
	CGUAccepted  bool      `json:"cgu_accepted"`
	StripeID     string    `json:"stripe_id,omitempty"`
	OTPEnabled   bool      `json:"otp_enabled"`
	OTPSecret    string    `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the member has admin privileges.
func (m *Member) IsAdmin() bool {
	return m.Type == TypeAdmin
}

// RegisterRequest is the payload for creating a member account.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Birthdate   string `json:"birthdate"`
	PhoneNumber string `json:"phone_number"`
	CGUAccepted bool   `json:"cgu_accepted"`
}

// UpdateRequest is the payload for updating a member profile.
// Pointer fields distinguish "not provided" from zero values.
type UpdateRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Birthdate   *string `json:"birthdate"`
	PhoneNumber *string `json:"phone_number"`
	Status      *bool   `json:"status"`
	Type        *string `json:"type"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalMembers      int `json:"total_members"`
	TotalRegularUsers int `json:"total_regular_users"`
	TotalArticles     int `json:"total_articles"`
	TotalEvents       int `json:"total_events"`
	TotalProjects     int `json:"total_projects"`
}
