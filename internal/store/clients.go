package store

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/session"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
	"github.com/BruksfildServices01/salon-agenda/internal/validators"
)

// ClientStore mantém a lista de clientes do salão do usuário logado.
//
// A resolução do tenant tem dois saltos: ao entrar uma sessão, assina o
// documento do próprio usuário; quando ele informa o salão, assina todos os
// clientes daquele salão. Mudanças raras de salão no documento do usuário
// derrubam e refazem a segunda subscription. Cada entrega substitui a lista
// inteira, reordenada por nome sem diferenciar caixa ou acento.
type ClientStore struct {
	users   realtime.Collection[*models.User]
	clients realtime.Collection[*models.Client]
	log     *zap.Logger

	mu      sync.Mutex
	state   TenantState
	userID  string
	salonID string
	list    []*models.Client

	watchers    map[int]func([]*models.Client)
	nextWatcher int

	cancelAuth    func()
	cancelUser    func()
	cancelClients func()
}

func NewClientStore(
	sess *session.Controller,
	users realtime.Collection[*models.User],
	clients realtime.Collection[*models.Client],
	log *zap.Logger,
) *ClientStore {
	s := &ClientStore{
		users:    users,
		clients:  clients,
		log:      log.With(zap.String("component", "client_store")),
		state:    StateNoSession,
		watchers: make(map[int]func([]*models.Client)),
	}
	s.cancelAuth = sess.OnAuthStateChanged(s.onAuthState)
	return s
}

// Close desfaz todas as subscriptions. Escritas em voo não são canceladas.
func (s *ClientStore) Close() {
	if s.cancelAuth != nil {
		s.cancelAuth()
	}
	s.onAuthState(nil)
}

// State devolve o estado atual da resolução de tenant.
func (s *ClientStore) State() TenantState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Clients devolve a última lista entregue, já ordenada.
func (s *ClientStore) Clients() []*models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Client, len(s.list))
	copy(out, s.list)
	return out
}

// OnSnapshot registra fn para cada substituição da lista. O snapshot atual é
// entregue imediatamente.
func (s *ClientStore) OnSnapshot(fn func([]*models.Client)) (cancel func()) {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	current := make([]*models.Client, len(s.list))
	copy(current, s.list)
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

// --------- Escritas ---------

// Add cria um cliente no salão resolvido. O resultado só aparece na lista
// quando a subscription reentregar o conjunto; não há atualização otimista.
func (s *ClientStore) Add(ctx context.Context, client *models.Client) error {
	userID, salonID, err := s.writeContext()
	if err != nil {
		return err
	}

	client.UserID = userID
	client.SalonID = salonID
	client.CreatedAt = timezone.Now()

	_, err = s.clients.Create(ctx, client)
	return err
}

// BulkAdd dispara uma criação por registro, em paralelo, sem rollback
// parcial: se alguma falhar, as que já começaram ainda confirmam, e o erro
// agregado não diz quais passaram — elas aparecem na próxima reentrega.
func (s *ClientStore) BulkAdd(ctx context.Context, clients []*models.Client) error {
	userID, salonID, err := s.writeContext()
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, client := range clients {
		client.UserID = userID
		client.SalonID = salonID
		client.CreatedAt = timezone.Now()

		g.Go(func() error {
			_, err := s.clients.Create(ctx, client)
			return err
		})
	}
	return g.Wait()
}

// Update aplica um patch parcial; apenas os campos presentes mudam.
func (s *ClientStore) Update(ctx context.Context, id string, patch map[string]any) error {
	if _, _, err := s.writeContext(); err != nil {
		return err
	}
	return s.clients.Update(ctx, id, patch)
}

// Remove apaga incondicionalmente pelo id.
func (s *ClientStore) Remove(ctx context.Context, id string) error {
	if _, _, err := s.writeContext(); err != nil {
		return err
	}
	return s.clients.Delete(ctx, id)
}

// writeContext valida as precondições de escrita antes de qualquer chamada
// remota: sem sessão → sessão inválida; sessão sem salão resolvido → conta
// ainda em configuração.
func (s *ClientStore) writeContext() (userID, salonID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateNoSession:
		return "", "", ErrInvalidSession
	case StateTenantKnown:
		return s.userID, s.salonID, nil
	default:
		return "", "", ErrNotReady
	}
}

// --------- Reação às subscriptions ---------

func (s *ClientStore) onAuthState(user *models.User) {
	s.mu.Lock()
	oldUser := s.cancelUser
	oldClients := s.cancelClients
	s.cancelUser, s.cancelClients = nil, nil

	if user == nil {
		s.state = StateNoSession
		s.userID, s.salonID = "", ""
		s.list = nil
		watchers := s.snapshotWatchers()
		s.mu.Unlock()

		cancelAll(oldUser, oldClients)
		notify(watchers, nil)
		return
	}

	s.state = StateResolvingTenant
	s.userID = user.ID
	s.salonID = ""
	s.list = nil
	s.mu.Unlock()

	cancelAll(oldUser, oldClients)

	cancel := s.users.Subscribe(
		realtime.Filter{Field: "id", Value: user.ID},
		s.onUserDocs,
	)

	s.mu.Lock()
	if s.state == StateNoSession || s.userID != user.ID {
		// Sessão caiu (ou trocou) enquanto assinávamos.
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancelUser = cancel
	s.mu.Unlock()
}

func (s *ClientStore) onUserDocs(docs []*models.User) {
	var salonID string
	if len(docs) > 0 {
		salonID = docs[0].SalonID
	}

	s.mu.Lock()
	if s.state == StateNoSession {
		s.mu.Unlock()
		return
	}
	if salonID == s.salonID && s.state != StateResolvingTenant {
		s.mu.Unlock()
		return
	}

	oldClients := s.cancelClients
	s.cancelClients = nil
	s.salonID = salonID
	s.list = nil

	if salonID == "" {
		s.state = StateNoTenant
		watchers := s.snapshotWatchers()
		s.mu.Unlock()

		cancelAll(oldClients)
		notify(watchers, nil)
		return
	}

	s.state = StateTenantKnown
	s.mu.Unlock()

	cancelAll(oldClients)

	cancel := s.clients.Subscribe(
		realtime.Filter{Field: "salon_id", Value: salonID},
		s.onClients,
	)

	s.mu.Lock()
	if s.state != StateTenantKnown || s.salonID != salonID {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancelClients = cancel
	s.mu.Unlock()
}

func (s *ClientStore) onClients(docs []*models.Client) {
	SortClients(docs)

	s.mu.Lock()
	if s.state != StateTenantKnown {
		s.mu.Unlock()
		return
	}
	s.list = docs
	watchers := s.snapshotWatchers()
	s.mu.Unlock()

	notify(watchers, docs)
}

func (s *ClientStore) snapshotWatchers() []func([]*models.Client) {
	fns := make([]func([]*models.Client), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	return fns
}

// SortClients ordena por nome, ignorando caixa e acentos.
func SortClients(clients []*models.Client) {
	sort.SliceStable(clients, func(i, j int) bool {
		return validators.Fold(clients[i].Name) < validators.Fold(clients[j].Name)
	})
}

func notify[T any](watchers []func([]T), docs []T) {
	for _, fn := range watchers {
		fn(docs)
	}
}

func cancelAll(cancels ...func()) {
	for _, cancel := range cancels {
		if cancel != nil {
			cancel()
		}
	}
}
