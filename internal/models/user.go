package models

import "time"

type User struct {
	ID      string `gorm:"primaryKey;size:64" json:"id"`
	SalonID string `gorm:"size:14;index" json:"salon_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	// Cópia do nome do salão no momento do cadastro, exibida sem precisar
	// de um segundo fetch.
	SalonName string `gorm:"size:100" json:"salon_name"`

	AvatarURL string `gorm:"size:255" json:"avatar_url,omitempty"`

	// Nunca devolvido pelos handlers: respostas são montadas campo a campo.
	PasswordHash string `gorm:"size:255;not null" json:"password_hash,omitempty"`

	ResetToken       string     `gorm:"size:64" json:"reset_token,omitempty"`
	ResetTokenExpiry *time.Time `json:"reset_token_expiry,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (u *User) DocID() string      { return u.ID }
func (u *User) SetDocID(id string) { u.ID = id }
