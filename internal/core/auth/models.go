package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/listing"
)

const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"

	StatusActive = "active"
	StatusBanned = "banned"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Reputation   int       `json:"reputation"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserResource drives the admin user listing. Admin-only: MinViewer gates
// the whole resource class, not individual rows.
var UserResource = listing.Resource{
	Table: "users",
	Columns: []string{
		"id", "email", "display_name", "role", "status",
		"reputation", "level", "created_at",
	},
	Filters: map[string]listing.FilterSpec{
		"q":          {Kind: listing.Substring, Columns: []string{"email", "display_name"}},
		"role":       {Kind: listing.Equals, Column: "role"},
		"status":     {Kind: listing.SetMembership, Column: "status"},
		"reputation": {Kind: listing.Range, Column: "reputation"},
		"created":    {Kind: listing.Range, Column: "created_at", Time: true},
	},
	SortFields: map[string]string{
		"created":    "created_at",
		"reputation": "reputation",
		"email":      "email",
	},
	DefaultSort:  "created",
	DefaultOrder: "desc",
	DefaultLimit: 50,
	MaxLimit:     100,
	TieBreak:     "id",
	MinViewer:    listing.ViewerPrivileged,
}
