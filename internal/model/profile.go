package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// Valid проверяет, что роль известна.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

type Profile struct {
	ID         uuid.UUID `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Role       Role      `json:"user_role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Profile) IsProfessional() bool {
	return p.Role == RoleProfessional
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
