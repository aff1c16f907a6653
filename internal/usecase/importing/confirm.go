package importing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/contacts"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

type ConfirmImport struct {
	clients realtime.Collection[*models.Client]
	audit   *audit.Dispatcher
}

func NewConfirmImport(
	clients realtime.Collection[*models.Client],
	audit *audit.Dispatcher,
) *ConfirmImport {
	return &ConfirmImport{
		clients: clients,
		audit:   audit,
	}
}

// Execute dispara uma criação por candidato selecionado, todas em paralelo e
// sem rollback: se uma falhar, as que já partiram confirmam mesmo assim e
// aparecem na próxima entrega da assinatura. O chamador recebe só o erro
// agregado, sem saber quantas passaram.
func (uc *ConfirmImport) Execute(
	ctx context.Context,
	salonID string,
	userID string,
	selected []contacts.Candidate,
) error {

	if len(selected) == 0 {
		return httperr.ErrBusiness("empty_selection")
	}

	// errgroup sem contexto derivado de propósito: cancelar as criações em
	// voo na primeira falha mudaria a semântica de lote parcial.
	var g errgroup.Group
	for _, cand := range selected {
		g.Go(func() error {
			client := models.Client{
				SalonID:   salonID,
				UserID:    userID,
				Name:      cand.Name,
				Phone:     cand.Phone,
				Address:   "",
				CreatedAt: timezone.Now(),
			}
			_, err := uc.clients.Create(ctx, &client)
			return err
		})
	}
	err := g.Wait()

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "clients_imported",
		Entity:   "client",
		Metadata: map[string]any{"selected": len(selected), "failed": err != nil},
	})

	return err
}
