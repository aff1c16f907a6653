package audit

import (
	"context"
	"encoding/json"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

type Logger struct {
	logs realtime.Collection[*models.AuditLog]
}

func New(logs realtime.Collection[*models.AuditLog]) *Logger {
	return &Logger{logs: logs}
}

func (l *Logger) Log(
	salonID string,
	userID *string,
	action string,
	entity string,
	entityID *string,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.AuditLog{
		SalonID:   salonID,
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  metaJSON,
		CreatedAt: timezone.Now(),
	}

	_, err := l.logs.Create(context.Background(), &entry)
	return err
}
