// Package payments gera links de pagamento para agendamentos com valor.
package payments

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type LinkGenerator struct {
	prefs preference.Client
}

func NewLinkGenerator(accessToken string) (*LinkGenerator, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}
	return &LinkGenerator{prefs: preference.NewClient(cfg)}, nil
}

// LinkForSchedule cria uma preferência de checkout para um agendamento com
// valor definido e devolve a URL de pagamento. Agendamento sem valor não tem
// o que cobrar.
func (g *LinkGenerator) LinkForSchedule(ctx context.Context, sched *models.Schedule) (string, error) {
	if sched.Value == nil || *sched.Value <= 0 {
		return "", httperr.ErrBusiness("schedule_without_value")
	}

	req := preference.Request{
		ExternalReference: sched.ID,
		Items: []preference.ItemRequest{
			{
				Title:     sched.Title,
				Quantity:  1,
				UnitPrice: *sched.Value,
			},
		},
	}

	resp, err := g.prefs.Create(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.InitPoint, nil
}
