package importing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/contacts"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime/memstore"
)

func newDispatcher(t *testing.T) *audit.Dispatcher {
	t.Helper()
	logs := memstore.New[*models.AuditLog]()
	return audit.NewDispatcher(audit.New(logs), zap.NewNop())
}

func TestPreviewExcludesExistingClientsOfTheSalon(t *testing.T) {
	clients := memstore.New[*models.Client]()
	ctx := context.Background()

	_, err := clients.Create(ctx, &models.Client{
		Name: "Ana", Phone: "(11) 99999-8888", SalonID: "999",
	})
	require.NoError(t, err)

	// Mesmo telefone em outro salão não conta.
	_, err = clients.Create(ctx, &models.Client{
		Name: "Outra Ana", Phone: "11988887777", SalonID: "111",
	})
	require.NoError(t, err)

	device := []contacts.DeviceContact{
		{Name: "Ana", Phones: []string{"11 99999-8888"}},
		{Name: "Bia", Phones: []string{"11 98888-7777"}},
	}

	got, err := NewPreviewImport(clients).Execute(ctx, "999", device)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bia", got[0].Name)
}

func TestConfirmCreatesOneClientPerCandidate(t *testing.T) {
	clients := memstore.New[*models.Client]()
	ctx := context.Background()

	selected := []contacts.Candidate{
		{Name: "Ana", Phone: "11 91234-5678"},
		{Name: "Bia", Phone: "11 98888-7777"},
	}

	err := NewConfirmImport(clients, newDispatcher(t)).Execute(ctx, "999", "user-1", selected)
	require.NoError(t, err)

	got, err := clients.QueryOnce(ctx, realtime.Filter{Field: "salon_id", Value: "999"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, "999", c.SalonID)
		assert.Equal(t, "user-1", c.UserID)
		assert.Empty(t, c.Address)
		assert.False(t, c.CreatedAt.IsZero())
	}
}

func TestConfirmPartialFailureKeepsCommitted(t *testing.T) {
	clients := memstore.New[*models.Client]()
	ctx := context.Background()

	clients.SetCreateHook(func(c *models.Client) error {
		if c.Name == "Bia" {
			return errors.New("falha transitória")
		}
		return nil
	})

	selected := []contacts.Candidate{
		{Name: "Ana", Phone: "11 91234-5678"},
		{Name: "Bia", Phone: "11 98888-7777"},
		{Name: "Carla", Phone: "11 97777-6666"},
	}

	err := NewConfirmImport(clients, newDispatcher(t)).Execute(ctx, "999", "user-1", selected)
	require.Error(t, err)

	// O erro agregado não desfaz o que já confirmou.
	got, err := clients.QueryOnce(ctx, realtime.Filter{Field: "salon_id", Value: "999"})
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Ana", "Carla"}, names)
}

func TestConfirmEmptySelection(t *testing.T) {
	clients := memstore.New[*models.Client]()

	err := NewConfirmImport(clients, newDispatcher(t)).Execute(context.Background(), "999", "user-1", nil)
	assert.True(t, httperr.IsBusiness(err, "empty_selection"))
}
