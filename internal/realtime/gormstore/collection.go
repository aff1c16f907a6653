// Package gormstore persiste as coleções em postgres via gorm e propaga
// mudanças pelo Notifier (redis em produção). Cada escrita confirmada publica
// o nome da coleção; cada subscription reexecuta a própria query e reentrega
// o snapshot completo — o banco é a verdade, nunca um cache local.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
)

type Collection[T realtime.Doc] struct {
	db       *gorm.DB
	name     string
	notifier realtime.Notifier
	log      *zap.Logger
}

func New[T realtime.Doc](db *gorm.DB, name string, notifier realtime.Notifier, log *zap.Logger) *Collection[T] {
	return &Collection[T]{
		db:       db,
		name:     name,
		notifier: notifier,
		log:      log.With(zap.String("collection", name)),
	}
}

func (c *Collection[T]) Create(ctx context.Context, doc T) (string, error) {
	if doc.DocID() == "" {
		doc.SetDocID(uuid.NewString())
	}

	if err := c.db.WithContext(ctx).Create(doc).Error; err != nil {
		return "", err
	}

	c.publish(ctx)
	return doc.DocID(), nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) error {
	tx := c.db.WithContext(ctx).
		Model(newDoc[T]()).
		Where("id = ?", id).
		Updates(patch)

	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return realtime.ErrNotFound
	}

	c.publish(ctx)
	return nil
}

// Delete é incondicional: remover um id inexistente não é erro.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(newDoc[T]()).Error; err != nil {
		return err
	}

	c.publish(ctx)
	return nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	doc := newDoc[T]()
	if err := c.db.WithContext(ctx).
		Where("id = ?", id).
		First(doc).Error; err != nil {

		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, realtime.ErrNotFound
		}
		return zero, err
	}
	return doc, nil
}

func (c *Collection[T]) QueryOnce(ctx context.Context, filter realtime.Filter) ([]T, error) {
	q := c.db.WithContext(ctx).Model(newDoc[T]())
	if !filter.Empty() {
		q = q.Where(fmt.Sprintf("%s = ?", filter.Field), filter.Value)
	}

	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Collection[T]) Subscribe(filter realtime.Filter, onChange func([]T)) (cancel func()) {
	sub := &subscription[T]{parent: c, filter: filter, onChange: onChange}

	stopListen := c.notifier.Listen(c.name, sub.refresh)

	// Snapshot inicial fora do caminho do chamador.
	go sub.refresh()

	return func() {
		stopListen()
		sub.mu.Lock()
		sub.closed = true
		sub.mu.Unlock()
	}
}

func (c *Collection[T]) publish(ctx context.Context) {
	if err := c.notifier.Publish(ctx, c.name); err != nil {
		c.log.Warn("mudança sem fan-out; assinantes remotos ficarão defasados", zap.Error(err))
	}
}

type subscription[T realtime.Doc] struct {
	parent   *Collection[T]
	filter   realtime.Filter
	onChange func([]T)

	mu     sync.Mutex
	closed bool
}

// refresh reexecuta a query e entrega o conjunto completo. O mutex serializa
// entregas concorrentes da mesma subscription.
func (s *subscription[T]) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	docs, err := s.parent.QueryOnce(context.Background(), s.filter)
	if err != nil {
		s.parent.log.Error("falha ao reentregar snapshot", zap.Error(err))
		return
	}
	s.onChange(docs)
}

func newDoc[T realtime.Doc]() T {
	var t T
	typ := reflect.TypeOf(&t).Elem().Elem()
	return reflect.New(typ).Interface().(T)
}
