package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleBrand   = "brand"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	DisplayName  *string    `json:"display_name,omitempty"`
	Role         string     `json:"role"` // brand / creator / admin
	CreatedAt    time.Time  `json:"created_at"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}
