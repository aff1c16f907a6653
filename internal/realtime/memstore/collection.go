// Package memstore implementa o contrato de realtime.Collection inteiramente
// em memória. Serve os testes e o desenvolvimento local sem postgres/redis:
// mesma semântica de snapshot completo a cada mudança, com controles extras
// (Hold/Release, hook de falha) para exercitar janelas de staleness e lotes
// parcialmente confirmados.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
)

type subscription[T realtime.Doc] struct {
	filter   realtime.Filter
	onChange func([]T)

	deliverMu sync.Mutex
	closed    bool
}

type Collection[T realtime.Doc] struct {
	mu     sync.Mutex
	docs   map[string]T
	subs   map[int]*subscription[T]
	nextID int

	held  bool
	dirty bool

	createHook func(T) error
}

func New[T realtime.Doc]() *Collection[T] {
	return &Collection[T]{
		docs: make(map[string]T),
		subs: make(map[int]*subscription[T]),
	}
}

// SetCreateHook injeta uma falha por documento; usado nos testes de
// importação em lote para simular criações que falham no meio do Promise.all.
func (c *Collection[T]) SetCreateHook(fn func(T) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createHook = fn
}

// Hold segura as reentregas; Release solta e reentrega o acumulado. Permite
// observar a janela em que uma escrita já confirmou mas o snapshot local
// ainda é o antigo.
func (c *Collection[T]) Hold() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = true
}

func (c *Collection[T]) Release() {
	c.mu.Lock()
	c.held = false
	dirty := c.dirty
	c.dirty = false
	subs := c.snapshotSubs()
	c.mu.Unlock()

	if dirty {
		c.deliverAll(subs)
	}
}

func (c *Collection[T]) Create(_ context.Context, doc T) (string, error) {
	c.mu.Lock()
	hook := c.createHook
	c.mu.Unlock()

	if hook != nil {
		if err := hook(doc); err != nil {
			return "", err
		}
	}

	stored := clone(doc)
	if stored.DocID() == "" {
		stored.SetDocID(uuid.NewString())
	}

	c.mu.Lock()
	c.docs[stored.DocID()] = stored
	subs := c.noteChange()
	c.mu.Unlock()

	c.deliverAll(subs)
	return stored.DocID(), nil
}

func (c *Collection[T]) Update(_ context.Context, id string, patch map[string]any) error {
	c.mu.Lock()
	existing, ok := c.docs[id]
	if !ok {
		c.mu.Unlock()
		return realtime.ErrNotFound
	}

	patched, err := applyPatch(existing, patch)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.docs[id] = patched
	subs := c.noteChange()
	c.mu.Unlock()

	c.deliverAll(subs)
	return nil
}

// Delete é incondicional: remover um id inexistente não é erro.
func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.docs, id)
	subs := c.noteChange()
	c.mu.Unlock()

	c.deliverAll(subs)
	return nil
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		var zero T
		return zero, realtime.ErrNotFound
	}
	return clone(doc), nil
}

func (c *Collection[T]) QueryOnce(_ context.Context, filter realtime.Filter) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queryLocked(filter), nil
}

func (c *Collection[T]) Subscribe(filter realtime.Filter, onChange func([]T)) (cancel func()) {
	c.mu.Lock()
	sub := &subscription[T]{filter: filter, onChange: onChange}
	id := c.nextID
	c.nextID++
	c.subs[id] = sub
	initial := c.queryLocked(filter)
	c.mu.Unlock()

	// Snapshot inicial entregue antes do retorno.
	sub.deliver(initial)

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()

		sub.deliverMu.Lock()
		sub.closed = true
		sub.deliverMu.Unlock()
	}
}

// ---------------------------------------------------
// internos
// ---------------------------------------------------

func (c *Collection[T]) noteChange() []*subscription[T] {
	if c.held {
		c.dirty = true
		return nil
	}
	return c.snapshotSubs()
}

func (c *Collection[T]) snapshotSubs() []*subscription[T] {
	subs := make([]*subscription[T], 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	return subs
}

func (c *Collection[T]) deliverAll(subs []*subscription[T]) {
	for _, sub := range subs {
		c.mu.Lock()
		docs := c.queryLocked(sub.filter)
		c.mu.Unlock()
		sub.deliver(docs)
	}
}

func (c *Collection[T]) queryLocked(filter realtime.Filter) []T {
	out := make([]T, 0)
	for _, doc := range c.docs {
		if matches(doc, filter) {
			out = append(out, clone(doc))
		}
	}
	return out
}

func (s *subscription[T]) deliver(docs []T) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if s.closed {
		return
	}
	s.onChange(docs)
}

func matches[T realtime.Doc](doc T, filter realtime.Filter) bool {
	if filter.Empty() {
		return true
	}
	m := toMap(doc)
	got, ok := m[filter.Field]
	if !ok {
		return fmt.Sprint(filter.Value) == ""
	}
	return fmt.Sprint(got) == fmt.Sprint(filter.Value)
}

func toMap[T realtime.Doc](doc T) map[string]any {
	b, _ := json.Marshal(doc)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

func clone[T realtime.Doc](doc T) T {
	b, _ := json.Marshal(doc)
	out := newDoc[T]()
	_ = json.Unmarshal(b, out)
	return out
}

func applyPatch[T realtime.Doc](doc T, patch map[string]any) (T, error) {
	m := toMap(doc)
	for k, v := range patch {
		m[k] = v
	}

	b, err := json.Marshal(m)
	if err != nil {
		var zero T
		return zero, err
	}
	out := newDoc[T]()
	if err := json.Unmarshal(b, out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func newDoc[T realtime.Doc]() T {
	var t T
	typ := reflect.TypeOf(&t).Elem().Elem()
	return reflect.New(typ).Interface().(T)
}
