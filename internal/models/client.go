package models

import "time"

// Cliente do salão, sem login próprio. Unicidade apenas pelo ID: telefones
// podem se repetir entre salões (a importação de contatos é quem deduplica
// dentro do mesmo salão).
type Client struct {
	ID      string `gorm:"primaryKey;size:64" json:"id"`
	SalonID string `gorm:"size:14;index" json:"salon_id"`
	UserID  string `gorm:"size:64" json:"user_id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) DocID() string      { return c.ID }
func (c *Client) SetDocID(id string) { c.ID = id }
