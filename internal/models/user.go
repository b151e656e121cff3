package models

import "time"

// Profile is the signed-in user as returned by /users/profile, including the
// embedded cart snapshot.
type Profile struct {
	ID         string       `json:"_id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	ProfilePic string       `json:"profilePic"`
	Role       string       `json:"role"`
	IsVerified bool         `json:"isVerified"`
	Addresses  []string     `json:"addresses"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	Cart       *CartPayload `json:"cart,omitempty"`
}

// ProfileEnvelope wraps the profile response.
type ProfileEnvelope struct {
	Status int      `json:"status"`
	Data   *Profile `json:"data"`
}
