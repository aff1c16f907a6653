package importing

import (
	"context"

	"github.com/BruksfildServices01/salon-agenda/internal/contacts"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
)

type PreviewImport struct {
	clients realtime.Collection[*models.Client]
}

func NewPreviewImport(clients realtime.Collection[*models.Client]) *PreviewImport {
	return &PreviewImport{clients: clients}
}

// Execute cruza os contatos enviados pelo aparelho com os clientes já
// cadastrados no salão e devolve os candidatos à importação, todos
// pré-selecionados por padrão. ErrNoContacts e ErrNothingToImport sobem
// para o handler virar mensagem informativa, não erro de API.
func (uc *PreviewImport) Execute(
	ctx context.Context,
	salonID string,
	device []contacts.DeviceContact,
) ([]contacts.Candidate, error) {

	existing, err := uc.clients.QueryOnce(ctx, realtime.Filter{Field: "salon_id", Value: salonID})
	if err != nil {
		return nil, err
	}

	phones := make([]string, 0, len(existing))
	for _, c := range existing {
		phones = append(phones, c.Phone)
	}

	return contacts.Reconcile(device, phones)
}
