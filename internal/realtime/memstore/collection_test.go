package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
)

func TestCollectionCRUD(t *testing.T) {
	col := New[*models.Client]()
	ctx := context.Background()

	id, err := col.Create(ctx, &models.Client{Name: "Ana", SalonID: "999"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	require.NoError(t, col.Update(ctx, id, map[string]any{"name": "Ana Paula"}))
	got, err = col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", got.Name)
	assert.Equal(t, "999", got.SalonID, "patch parcial preserva os demais campos")

	err = col.Update(ctx, "nao-existe", map[string]any{"name": "X"})
	assert.ErrorIs(t, err, realtime.ErrNotFound)

	require.NoError(t, col.Delete(ctx, id))
	_, err = col.Get(ctx, id)
	assert.ErrorIs(t, err, realtime.ErrNotFound)

	// Delete é incondicional.
	assert.NoError(t, col.Delete(ctx, id))
}

func TestCollectionGetReturnsCopy(t *testing.T) {
	col := New[*models.Client]()
	ctx := context.Background()

	id, err := col.Create(ctx, &models.Client{Name: "Ana"})
	require.NoError(t, err)

	got, err := col.Get(ctx, id)
	require.NoError(t, err)
	got.Name = "mutação local"

	again, err := col.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Name)
}

func TestSubscribeDeliversFullSnapshots(t *testing.T) {
	col := New[*models.Client]()
	ctx := context.Background()

	_, err := col.Create(ctx, &models.Client{Name: "Ana", SalonID: "999"})
	require.NoError(t, err)
	_, err = col.Create(ctx, &models.Client{Name: "Fora", SalonID: "111"})
	require.NoError(t, err)

	var deliveries [][]*models.Client
	cancel := col.Subscribe(
		realtime.Filter{Field: "salon_id", Value: "999"},
		func(docs []*models.Client) { deliveries = append(deliveries, docs) },
	)

	// Snapshot inicial entregue no registro, já filtrado.
	require.Len(t, deliveries, 1)
	require.Len(t, deliveries[0], 1)
	assert.Equal(t, "Ana", deliveries[0][0].Name)

	// Cada mudança reentrega o conjunto completo, não um delta.
	_, err = col.Create(ctx, &models.Client{Name: "Bia", SalonID: "999"})
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Len(t, deliveries[1], 2)

	// Mudança fora do filtro ainda reentrega (o conjunto continua o mesmo).
	_, err = col.Create(ctx, &models.Client{Name: "Outra", SalonID: "111"})
	require.NoError(t, err)
	require.Len(t, deliveries, 3)
	assert.Len(t, deliveries[2], 2)

	cancel()
	_, err = col.Create(ctx, &models.Client{Name: "Depois", SalonID: "999"})
	require.NoError(t, err)
	assert.Len(t, deliveries, 3, "nenhuma entrega após o cancel")
}

func TestHoldReleaseBatchesDeliveries(t *testing.T) {
	col := New[*models.Client]()
	ctx := context.Background()

	var deliveries int
	var last []*models.Client
	col.Subscribe(realtime.Filter{}, func(docs []*models.Client) {
		deliveries++
		last = docs
	})
	require.Equal(t, 1, deliveries)

	col.Hold()
	_, err := col.Create(ctx, &models.Client{Name: "Ana"})
	require.NoError(t, err)
	_, err = col.Create(ctx, &models.Client{Name: "Bia"})
	require.NoError(t, err)
	assert.Equal(t, 1, deliveries, "segurado: nada entregue")

	col.Release()
	assert.Equal(t, 2, deliveries)
	assert.Len(t, last, 2)
}
