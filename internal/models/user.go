package models

import "time"

// User is the persisted account entity. The hashed password never leaves the
// service layer; API responses use the Profile projection instead.
type User struct {
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	IsActive       bool      `json:"is_active"`
	IsVerified     bool      `json:"is_verified"`
}

// Profile is the public projection of a User.
type Profile struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
}

// Profile returns the public projection of u.
func (u *User) Profile() Profile {
	return Profile{
		UserID:     u.UserID,
		Email:      u.Email,
		Username:   u.Username,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
	}
}

// Token is the login response: a signed bearer token and its lifetime.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
