package models

import "time"

type AuditLog struct {
	ID      string `gorm:"primaryKey;size:64" json:"id"`
	SalonID string `gorm:"size:14;index" json:"salon_id"`

	UserID *string `gorm:"size:64" json:"user_id"`
	Action string  `gorm:"size:50;not null" json:"action"`

	Entity   string  `gorm:"size:50" json:"entity"`
	EntityID *string `gorm:"size:64" json:"entity_id"`
	Metadata string  `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *AuditLog) DocID() string      { return a.ID }
func (a *AuditLog) SetDocID(id string) { a.ID = id }
