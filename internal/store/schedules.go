package store

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/session"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

// ScheduleStore mantém a agenda do próprio usuário — o escopo é o criador,
// não o salão. Uma subscription só: agendamentos com user_id da sessão,
// lista substituída e reordenada (data, depois hora de início) a cada
// entrega.
type ScheduleStore struct {
	schedules realtime.Collection[*models.Schedule]
	log       *zap.Logger

	mu     sync.Mutex
	userID string
	list   []*models.Schedule

	watchers    map[int]func([]*models.Schedule)
	nextWatcher int

	cancelAuth func()
	cancelSub  func()
}

func NewScheduleStore(
	sess *session.Controller,
	schedules realtime.Collection[*models.Schedule],
	log *zap.Logger,
) *ScheduleStore {
	s := &ScheduleStore{
		schedules: schedules,
		log:       log.With(zap.String("component", "schedule_store")),
		watchers:  make(map[int]func([]*models.Schedule)),
	}
	s.cancelAuth = sess.OnAuthStateChanged(s.onAuthState)
	return s
}

func (s *ScheduleStore) Close() {
	if s.cancelAuth != nil {
		s.cancelAuth()
	}
	s.onAuthState(nil)
}

// Schedules devolve a última lista entregue, já ordenada.
func (s *ScheduleStore) Schedules() []*models.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Schedule, len(s.list))
	copy(out, s.list)
	return out
}

func (s *ScheduleStore) OnSnapshot(fn func([]*models.Schedule)) (cancel func()) {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	current := make([]*models.Schedule, len(s.list))
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

// Add cria o agendamento para o usuário da sessão. Diferente dos clientes,
// não exige salão resolvido — só sessão ativa.
func (s *ScheduleStore) Add(ctx context.Context, schedule *models.Schedule) error {
	userID, err := s.writeContext()
	if err != nil {
		return err
	}

	schedule.UserID = userID
	schedule.CreatedAt = timezone.Now()

	_, err = s.schedules.Create(ctx, schedule)
	return err
}

func (s *ScheduleStore) Update(ctx context.Context, id string, patch map[string]any) error {
	if _, err := s.writeContext(); err != nil {
		return err
	}
	return s.schedules.Update(ctx, id, patch)
}

func (s *ScheduleStore) Remove(ctx context.Context, id string) error {
	if _, err := s.writeContext(); err != nil {
		return err
	}
	return s.schedules.Delete(ctx, id)
}

func (s *ScheduleStore) writeContext() (userID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		return "", ErrInvalidSession
	}
	return s.userID, nil
}

// --------- Reação às subscriptions ---------

func (s *ScheduleStore) onAuthState(user *models.User) {
	s.mu.Lock()
	old := s.cancelSub
	s.cancelSub = nil

	if user == nil {
		s.userID = ""
		s.list = nil
		watchers := s.snapshotWatchers()
		s.mu.Unlock()

		cancelAll(old)
		notify(watchers, nil)
		return
	}

	s.userID = user.ID
	s.list = nil
	s.mu.Unlock()

	cancelAll(old)

	cancel := s.schedules.Subscribe(
		realtime.Filter{Field: "user_id", Value: user.ID},
		s.onSchedules,
	)

	s.mu.Lock()
	if s.userID != user.ID {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancelSub = cancel
	s.mu.Unlock()
}

func (s *ScheduleStore) onSchedules(docs []*models.Schedule) {
	SortSchedules(docs)

	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return
	}
	s.list = docs
	watchers := s.snapshotWatchers()
	s.mu.Unlock()

	notify(watchers, docs)
}

func (s *ScheduleStore) snapshotWatchers() []func([]*models.Schedule) {
	fns := make([]func([]*models.Schedule), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	return fns
}

// SortSchedules ordena por data e, dentro do dia, pela hora de início.
// Os formatos "2006-01-02" e "15:04" comparam corretamente como texto.
func SortSchedules(schedules []*models.Schedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		if schedules[i].Date != schedules[j].Date {
			return schedules[i].Date < schedules[j].Date
		}
		return schedules[i].StartTime < schedules[j].StartTime
	})
}
