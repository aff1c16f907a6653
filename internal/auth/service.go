// Package auth implementa o colaborador de autenticação: criação de conta de
// profissional (com o salão criado junto, se ainda não existir), login por
// e-mail/senha com JWT, atualização de perfil e reset de senha.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
	"github.com/BruksfildServices01/salon-agenda/internal/validators"
)

var (
	ErrEmailInUse         = errors.New("e-mail já está em uso")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrInvalidDocument    = errors.New("documento do salão inválido")
	ErrWeakPassword       = errors.New("a senha deve ter pelo menos 6 caracteres")
)

const tokenTTL = 24 * time.Hour

// Mailer entrega o link de redefinição de senha. A implementação real fica
// fora deste pacote; os testes usam um fake.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type Service struct {
	users  realtime.Collection[*models.User]
	salons realtime.Collection[*models.Salon]
	secret []byte
	mailer Mailer
	log    *zap.Logger
}

func NewService(
	users realtime.Collection[*models.User],
	salons realtime.Collection[*models.Salon],
	jwtSecret string,
	mailer Mailer,
	log *zap.Logger,
) *Service {
	return &Service{
		users:  users,
		salons: salons,
		secret: []byte(jwtSecret),
		mailer: mailer,
		log:    log.With(zap.String("component", "auth")),
	}
}

// --------- Criação de conta ---------

type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Phone    string

	SalonName     string
	SalonDocument string
}

// CreateAccount cria a conta do profissional e, se for o primeiro da equipe,
// o salão. O id do salão são os dígitos do documento; se o documento já tem
// salão cadastrado a criação é pulada e o usuário entra nele — o registro do
// salão é imutável depois de existir.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if len(in.Password) < 6 {
		return nil, "", ErrWeakPassword
	}
	if !validators.ValidateCpfCnpj(in.SalonDocument) {
		return nil, "", ErrInvalidDocument
	}

	existing, err := s.users.QueryOnce(ctx, realtime.Filter{Field: "email", Value: email})
	if err != nil {
		return nil, "", err
	}
	if len(existing) > 0 {
		return nil, "", ErrEmailInUse
	}

	salonID := validators.Digits(in.SalonDocument)
	if _, err := s.salons.Get(ctx, salonID); errors.Is(err, realtime.ErrNotFound) {
		salon := &models.Salon{
			ID:        salonID,
			Name:      in.SalonName,
			Document:  in.SalonDocument,
			CreatedAt: timezone.Now(),
		}
		if _, err := s.salons.Create(ctx, salon); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		SalonID:      salonID,
		SalonName:    in.SalonName,
		Name:         in.Name,
		Email:        email,
		Phone:        validators.Digits(in.Phone),
		PasswordHash: string(hashed),
		CreatedAt:    timezone.Now(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	// Dono só é marcado na criação do salão; entradas posteriores no mesmo
	// documento não mudam o dono.
	if err := s.claimSalonOwner(ctx, salonID, user.ID); err != nil {
		s.log.Warn("não foi possível registrar o dono do salão", zap.Error(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) claimSalonOwner(ctx context.Context, salonID, userID string) error {
	salon, err := s.salons.Get(ctx, salonID)
	if err != nil {
		return err
	}
	if salon.OwnerID != "" {
		return nil
	}
	return s.salons.Update(ctx, salonID, map[string]any{"owner_id": userID})
}

// --------- Login ---------

func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	found, err := s.users.QueryOnce(ctx, realtime.Filter{Field: "email", Value: email})
	if err != nil {
		return nil, "", err
	}
	if len(found) == 0 {
		return nil, "", ErrInvalidCredentials
	}
	user := found[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// --------- Perfil ---------

// UpdateProfile aplica um patch parcial ao documento do usuário. Campos
// sensíveis (senha, e-mail) não passam por aqui.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch map[string]any) error {
	allowed := map[string]bool{"name": true, "phone": true, "avatar_url": true}
	clean := make(map[string]any, len(patch))
	for k, v := range patch {
		if allowed[k] {
			clean[k] = v
		}
	}
	if len(clean) == 0 {
		return nil
	}
	return s.users.Update(ctx, userID, clean)
}

// --------- Reset de senha ---------

// SendPasswordReset grava um token de uso único no documento do usuário e o
// entrega pelo Mailer. E-mail desconhecido não é erro: a resposta é idêntica
// para não revelar contas cadastradas.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	found, err := s.users.QueryOnce(ctx, realtime.Filter{Field: "email", Value: email})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return nil
	}
	user := found[0]

	token := uuid.NewString()
	expiry := timezone.Now().Add(1 * time.Hour)
	if err := s.users.Update(ctx, user.ID, map[string]any{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}); err != nil {
		return err
	}

	return s.mailer.SendPasswordReset(ctx, email, token)
}

// --------- JWT ---------

func (s *Service) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"salonId": user.SalonID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
