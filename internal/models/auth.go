package models

import "time"

// Roles carried in admin tokens.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      AdminUser `json:"user"`
}

// AdminUser is an account that may manage classes, prizes and the shop.
type AdminUser struct {
	ID           int64     `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	IsAdmin      bool      `bson:"isAdmin" json:"is_admin"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}

// Role maps the admin flag onto a token role.
func (u *AdminUser) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleTeacher
}
