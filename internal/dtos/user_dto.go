package dtos

import "strings"

// RegisterRequest creates an account. Passwords are capped at 72 bytes, the bcrypt input limit.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,max=254,useremail"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// NormalizedEmail is the form stored and compared: trimmed and lower case.
func (r *RegisterRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}
