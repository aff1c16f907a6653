package models

import "time"

// Salon é o tenant do sistema. O ID é derivado dos dígitos do documento
// (CPF/CNPJ), então cada documento cadastra no máximo um salão e o registro
// nunca muda depois de criado.
type Salon struct {
	ID       string `gorm:"primaryKey;size:14" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Document string `gorm:"size:20;not null" json:"document"`
	OwnerID  string `gorm:"size:64" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *Salon) DocID() string      { return s.ID }
func (s *Salon) SetDocID(id string) { s.ID = id }
