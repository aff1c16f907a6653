package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime/memstore"
)

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.sent = append(m.sent, email+":"+token)
	return nil
}

func newService(t *testing.T) (*Service, *memstore.Collection[*models.User], *memstore.Collection[*models.Salon], *fakeMailer) {
	t.Helper()
	users := memstore.New[*models.User]()
	salons := memstore.New[*models.Salon]()
	mailer := &fakeMailer{}
	svc := NewService(users, salons, "test-secret", mailer, zap.NewNop())
	return svc, users, salons, mailer
}

func validInput() CreateAccountInput {
	return CreateAccountInput{
		Name:          "Maria",
		Email:         "maria@example.com",
		Password:      "supersecreta",
		Phone:         "(11) 98765-4321",
		SalonName:     "Espaço Maria",
		SalonDocument: "529.982.247-25",
	}
}

func TestCreateAccountCreatesSalonOnce(t *testing.T) {
	svc, _, salons, _ := newService(t)
	ctx := context.Background()

	user, token, err := svc.CreateAccount(ctx, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "52998224725", user.SalonID)
	assert.Equal(t, "11987654321", user.Phone)

	salon, err := salons.Get(ctx, "52998224725")
	require.NoError(t, err)
	assert.Equal(t, "Espaço Maria", salon.Name)
	assert.Equal(t, user.ID, salon.OwnerID)

	// Segundo profissional com o mesmo documento entra no salão existente;
	// nome e dono do registro original não mudam.
	second := validInput()
	second.Email = "joana@example.com"
	second.SalonName = "Outro Nome"

	user2, _, err := svc.CreateAccount(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "52998224725", user2.SalonID)

	salon, err = salons.Get(ctx, "52998224725")
	require.NoError(t, err)
	assert.Equal(t, "Espaço Maria", salon.Name)
	assert.Equal(t, user.ID, salon.OwnerID)
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.CreateAccount(ctx, validInput())
	require.NoError(t, err)

	_, _, err = svc.CreateAccount(ctx, validInput())
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestCreateAccountValidation(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	in := validInput()
	in.Password = "123"
	_, _, err := svc.CreateAccount(ctx, in)
	assert.ErrorIs(t, err, ErrWeakPassword)

	in = validInput()
	in.SalonDocument = "11111111111"
	_, _, err = svc.CreateAccount(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestSignIn(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	created, _, err := svc.CreateAccount(ctx, validInput())
	require.NoError(t, err)

	user, token, err := svc.SignIn(ctx, "MARIA@example.com", "supersecreta")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, created.ID, claims["sub"])
	assert.Equal(t, "52998224725", claims["salonId"])

	_, _, err = svc.SignIn(ctx, "maria@example.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "ninguem@example.com", "supersecreta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileFiltersFields(t *testing.T) {
	svc, users, _, _ := newService(t)
	ctx := context.Background()

	user, _, err := svc.CreateAccount(ctx, validInput())
	require.NoError(t, err)

	err = svc.UpdateProfile(ctx, user.ID, map[string]any{
		"name":          "Maria Silva",
		"avatar_url":    "https://cdn.example.com/a.webp",
		"password_hash": "hack",
	})
	require.NoError(t, err)

	got, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.Name)
	assert.Equal(t, "https://cdn.example.com/a.webp", got.AvatarURL)
	assert.NotEqual(t, "hack", got.PasswordHash)
}

func TestSendPasswordReset(t *testing.T) {
	svc, users, _, mailer := newService(t)
	ctx := context.Background()

	user, _, err := svc.CreateAccount(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.SendPasswordReset(ctx, "maria@example.com"))
	require.Len(t, mailer.sent, 1)

	got, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ResetToken)
	require.NotNil(t, got.ResetTokenExpiry)

	// E-mail desconhecido: silêncio, nada enviado.
	require.NoError(t, svc.SendPasswordReset(ctx, "x@example.com"))
	assert.Len(t, mailer.sent, 1)
}
