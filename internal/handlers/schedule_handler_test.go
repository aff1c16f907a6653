package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime/memstore"
)

type scheduleFixture struct {
	clients   *memstore.Collection[*models.Client]
	schedules *memstore.Collection[*models.Schedule]
	router    *gin.Engine
}

// newScheduleFixture monta o handler atrás de um middleware que simula a
// sessão do token (userID + salonID já resolvidos).
func newScheduleFixture(t *testing.T, userID, salonID string) *scheduleFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &scheduleFixture{
		clients:   memstore.New[*models.Client](),
		schedules: memstore.New[*models.Schedule](),
	}

	dispatcher := audit.NewDispatcher(
		audit.New(memstore.New[*models.AuditLog]()),
		zap.NewNop(),
	)
	h := NewScheduleHandler(f.schedules, f.clients, dispatcher)

	f.router = gin.New()
	f.router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextSalonID, salonID)
		c.Next()
	})
	f.router.GET("/me/schedules", h.List)
	f.router.POST("/me/schedules", h.Create)

	return f
}

func (f *scheduleFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestScheduleCreateRejectsClientFromAnotherSalon(t *testing.T) {
	f := newScheduleFixture(t, "user-1", "999")
	ctx := context.Background()

	foreignID, err := f.clients.Create(ctx, &models.Client{
		Name: "Cliente de Outro Salão", SalonID: "111", UserID: "user-2",
	})
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, "/me/schedules", gin.H{
		"date":       "2026-09-01",
		"title":      "Corte",
		"start_time": "10:00",
		"client_id":  foreignID,
	})

	// Mesma resposta de id inexistente: o nome do cliente não pode vazar.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "client_not_found")
	assert.NotContains(t, w.Body.String(), "Cliente de Outro Salão")

	created, err := f.schedules.QueryOnce(ctx, realtime.Filter{})
	require.NoError(t, err)
	assert.Empty(t, created, "nada persistido com vínculo de outro salão")
}

func TestScheduleCreateSnapshotsClientNameOfOwnSalon(t *testing.T) {
	f := newScheduleFixture(t, "user-1", "999")
	ctx := context.Background()

	clientID, err := f.clients.Create(ctx, &models.Client{
		Name: "Ana", SalonID: "999", UserID: "user-1",
	})
	require.NoError(t, err)

	w := f.do(t, http.MethodPost, "/me/schedules", gin.H{
		"date":       "2026-09-01",
		"title":      "Corte",
		"start_time": "10:00",
		"client_id":  clientID,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"client_name":"Ana"`)
}

func TestScheduleListFiltersByClient(t *testing.T) {
	f := newScheduleFixture(t, "user-1", "999")
	ctx := context.Background()

	_, err := f.schedules.Create(ctx, &models.Schedule{
		UserID: "user-1", Date: "2026-09-01", Title: "Corte",
		StartTime: "10:00", ClientID: "cli-a", ClientName: "Ana",
	})
	require.NoError(t, err)
	_, err = f.schedules.Create(ctx, &models.Schedule{
		UserID: "user-1", Date: "2026-09-02", Title: "Escova",
		StartTime: "11:00", ClientID: "cli-b", ClientName: "Bia",
	})
	require.NoError(t, err)

	w := f.do(t, http.MethodGet, "/me/schedules?client_id=cli-a", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data  []*models.Schedule `json:"data"`
		Total int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "cli-a", resp.Data[0].ClientID)
	assert.Equal(t, "Ana", resp.Data[0].ClientName)
}
