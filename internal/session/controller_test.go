package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

func TestControllerNotifiesListeners(t *testing.T) {
	ctrl := NewController()

	var got []*models.User
	cancel := ctrl.OnAuthStateChanged(func(u *models.User) {
		got = append(got, u)
	})

	// Estado atual entregue no registro.
	require.Len(t, got, 1)
	assert.Nil(t, got[0])

	user := &models.User{ID: "u1", Name: "Ana"}
	ctrl.SetUser(user)
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[1].ID)
	assert.Equal(t, user, ctrl.CurrentUser())

	ctrl.SignOut()
	require.Len(t, got, 3)
	assert.Nil(t, got[2])
	assert.Nil(t, ctrl.CurrentUser())

	cancel()
	ctrl.SetUser(user)
	assert.Len(t, got, 3, "listener cancelado não deve ser notificado")
}

func TestControllerSwitchingFlag(t *testing.T) {
	ctrl := NewController()
	assert.False(t, ctrl.Switching())

	ctrl.SetSwitching(true)
	assert.True(t, ctrl.Switching())

	ctrl.SetSwitching(false)
	assert.False(t, ctrl.Switching())
}
