package realtime

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Notifier propaga "algo mudou na coleção X" entre escritores e
// subscriptions. O payload é só o nome da coleção: quem assina reexecuta a
// própria query e reentrega o snapshot completo.
type Notifier interface {
	Publish(ctx context.Context, collection string) error
	Listen(collection string, fn func()) (cancel func())
}

// ---------------------------------------------------
// LOCAL (processo único)
// ---------------------------------------------------

type LocalNotifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]func()
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{listeners: make(map[string]map[int]func())}
}

func (n *LocalNotifier) Publish(_ context.Context, collection string) error {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners[collection]))
	for _, fn := range n.listeners[collection] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

func (n *LocalNotifier) Listen(collection string, fn func()) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners[collection] == nil {
		n.listeners[collection] = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[collection][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners[collection], id)
	}
}

// ---------------------------------------------------
// REDIS (vários nós)
// ---------------------------------------------------

const changesChannel = "agenda:changes"

// RedisNotifier publica o nome da coleção num canal pub/sub. Cada nó mantém
// uma única subscription redis e faz fan-out local para as queries ativas.
type RedisNotifier struct {
	rdb   *redis.Client
	local *LocalNotifier
	log   *zap.Logger

	stop context.CancelFunc
}

func NewRedisNotifier(rdb *redis.Client, log *zap.Logger) *RedisNotifier {
	ctx, stop := context.WithCancel(context.Background())

	n := &RedisNotifier{
		rdb:   rdb,
		local: NewLocalNotifier(),
		log:   log,
		stop:  stop,
	}

	pubsub := rdb.Subscribe(ctx, changesChannel)
	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_ = n.local.Publish(context.Background(), msg.Payload)
			}
		}
	}()

	return n
}

func (n *RedisNotifier) Publish(ctx context.Context, collection string) error {
	if err := n.rdb.Publish(ctx, changesChannel, collection).Err(); err != nil {
		n.log.Error("falha ao publicar mudança", zap.String("collection", collection), zap.Error(err))
		return err
	}
	return nil
}

func (n *RedisNotifier) Listen(collection string, fn func()) (cancel func()) {
	return n.local.Listen(collection, fn)
}

func (n *RedisNotifier) Close() { n.stop() }
