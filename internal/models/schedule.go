package models

import "time"

// Agendamento pertence ao profissional que o criou (UserID), não ao salão.
type Schedule struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	UserID string `gorm:"size:64;index" json:"user_id"`

	// Dia do calendário, sem fuso: "2006-01-02".
	Date  string `gorm:"size:10;not null" json:"date"`
	Title string `gorm:"size:100;not null" json:"title"`

	ClientID string `gorm:"size:64" json:"client_id"`

	// Snapshot do nome no momento da criação. Não acompanha renomeações
	// posteriores do cliente.
	ClientName string `gorm:"size:100" json:"client_name"`

	Value   *float64 `json:"value,omitempty"`
	Payment string   `gorm:"size:30" json:"payment"`

	StartTime string `gorm:"size:5" json:"start_time"`
	// Vazio significa "sem horário de término definido".
	EndTime string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *Schedule) DocID() string      { return s.ID }
func (s *Schedule) SetDocID(id string) { s.ID = id }
