package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime/memstore"
	"github.com/BruksfildServices01/salon-agenda/internal/session"
)

type scheduleFixture struct {
	sess      *session.Controller
	schedules *memstore.Collection[*models.Schedule]
	store     *ScheduleStore
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	f := &scheduleFixture{
		sess:      session.NewController(),
		schedules: memstore.New[*models.Schedule](),
	}
	f.store = NewScheduleStore(f.sess, f.schedules, zap.NewNop())
	t.Cleanup(f.store.Close)
	return f
}

func (f *scheduleFixture) signIn(userID string) {
	f.sess.SetUser(&models.User{ID: userID, Name: "Pro"})
}

func titles(schedules []*models.Schedule) []string {
	out := make([]string, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, s.Title)
	}
	return out
}

func TestScheduleStoreRequiresSession(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	err := f.store.Add(ctx, &models.Schedule{Date: "2024-01-05", Title: "Corte"})
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Diferente dos clientes, não precisa de salão resolvido: só sessão.
	f.signIn("u1")
	require.NoError(t, f.store.Add(ctx, &models.Schedule{
		Date: "2024-01-05", Title: "Corte", StartTime: "09:00",
	}))
	assert.Equal(t, []string{"Corte"}, titles(f.store.Schedules()))
}

func TestScheduleStoreSortsByDateThenStart(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	f.signIn("u1")

	add := func(date, start, title string) {
		require.NoError(t, f.store.Add(ctx, &models.Schedule{
			Date: date, StartTime: start, Title: title,
		}))
	}

	add("2024-01-06", "08:00", "terceiro")
	add("2024-01-05", "10:00", "segundo")
	add("2024-01-05", "09:00", "primeiro")

	assert.Equal(t, []string{"primeiro", "segundo", "terceiro"}, titles(f.store.Schedules()))
}

func TestScheduleStoreScopedToOwner(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	f.signIn("u1")

	_, err := f.schedules.Create(ctx, &models.Schedule{
		UserID: "outro", Date: "2024-01-05", Title: "alheio", StartTime: "09:00",
	})
	require.NoError(t, err)

	require.NoError(t, f.store.Add(ctx, &models.Schedule{
		Date: "2024-01-05", Title: "meu", StartTime: "10:00",
	}))

	assert.Equal(t, []string{"meu"}, titles(f.store.Schedules()))
}

func TestScheduleClientNameIsSnapshot(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	f.signIn("u1")

	require.NoError(t, f.store.Add(ctx, &models.Schedule{
		Date:       "2024-01-05",
		Title:      "Corte",
		StartTime:  "09:00",
		ClientID:   "c1",
		ClientName: "Ana",
	}))

	// Renomear o cliente depois não altera o snapshot gravado no agendamento.
	got := f.store.Schedules()
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].ClientName)

	require.NoError(t, f.store.Update(ctx, got[0].ID, map[string]any{"title": "Corte e escova"}))
	got = f.store.Schedules()
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].ClientName, "patch parcial não toca outros campos")
	assert.Equal(t, "Corte e escova", got[0].Title)
}

func TestScheduleStoreSignOutClears(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()
	f.signIn("u1")

	require.NoError(t, f.store.Add(ctx, &models.Schedule{
		Date: "2024-01-05", Title: "Corte", StartTime: "09:00",
	}))
	require.Len(t, f.store.Schedules(), 1)

	f.sess.SignOut()
	assert.Empty(t, f.store.Schedules())

	// Mudanças remotas após o sign-out não reaparecem na lista local.
	_, err := f.schedules.Create(ctx, &models.Schedule{
		UserID: "u1", Date: "2024-01-07", Title: "tarde", StartTime: "14:00",
	})
	require.NoError(t, err)
	assert.Empty(t, f.store.Schedules())
}
