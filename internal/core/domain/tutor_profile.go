package domain

import "time"

// TutorProfile is created exclusively as a side effect of approving a
// verification request; there is exactly one per ever-approved user. Profile
// content (biography, rating) evolves independently of the workflow.
type TutorProfile struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	RequestID int64 `json:"request_id"`

	// Verified is always true for profiles created by the workflow.
	Verified  bool    `json:"verified"`
	Rating    float64 `json:"rating"`
	Biography string  `json:"biography,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
