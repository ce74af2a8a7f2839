package domain

import "time"

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTutor   Role = "TUTOR"
	RoleAdmin   Role = "ADMIN"
)

// User is the canonical account record. IDs are business-visible integers
// allocated once at registration time by the accounts service; this service
// only reads users and promotes their role through the verification workflow.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`

	// A user holds at most one verification request and at most one tutor
	// profile. Both references are written exclusively by the workflow.
	VerificationRequestID *int64 `json:"verification_request_id,omitempty"`
	TutorProfileID        *int64 `json:"tutor_profile_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTutor reports whether the user has already been promoted.
func (u *User) IsTutor() bool {
	return u.Role == RoleTutor
}
