// Package live implements the category subscription push model: subscribers
// register a callback and receive a full replacement snapshot of their
// categories on every change, not a diff. Change notifications travel over a
// redis channel so every instance fans out writes made on any instance.
package live

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"jokehub/internal/http-api/models"

	"github.com/redis/go-redis/v9"
)

const categoriesChannel = "categories.changed"

// CategoryLoader fetches the current category snapshot for a user.
type CategoryLoader func(ctx context.Context, userID string) ([]models.Category, error)

type subscriber struct {
	onUpdate func([]models.Category)
	onError  func(error)
	updates  chan []models.Category
	done     chan struct{}
	errOnce  sync.Once
}

// fail delivers the transport error at most once per subscription lifetime.
func (s *subscriber) fail(err error) {
	if s.onError == nil {
		return
	}
	s.errOnce.Do(func() { s.onError(err) })
}

type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int64]*subscriber
	nextID int64

	loader CategoryLoader
	rdb    *redis.Client
	logger *slog.Logger
}

func NewHub(rdb *redis.Client, loader CategoryLoader, logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[int64]*subscriber),
		loader: loader,
		rdb:    rdb,
		logger: logger,
	}
}

// Run pumps redis change notifications into local refreshes until ctx ends.
// A broken pubsub connection is surfaced to every active subscriber once;
// subscriptions are not auto-retried.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, categoriesChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				err := ctx.Err()
				if err == nil {
					err = context.Canceled
				}
				h.failAll(err)
				return
			}
			h.refresh(ctx, msg.Payload)
		}
	}
}

// NotifyChanged announces that a user's category set changed. Publishing
// through redis reaches every instance; if redis is down the local
// subscribers still get their refresh.
func (h *Hub) NotifyChanged(ctx context.Context, userID string) {
	if err := h.rdb.Publish(ctx, categoriesChannel, userID).Err(); err != nil {
		h.logger.Warn("category change publish failed, refreshing locally", "error", err)
		h.refresh(ctx, userID)
	}
}

// Subscribe registers callbacks for a user's category snapshots and returns a
// disposer. The current snapshot is delivered immediately.
func (h *Hub) Subscribe(userID string, onUpdate func([]models.Category), onError func(error)) (unsubscribe func()) {
	s := &subscriber{
		onUpdate: onUpdate,
		onError:  onError,
		updates:  make(chan []models.Category, 1),
		done:     make(chan struct{}),
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int64]*subscriber)
	}
	h.subs[userID][id] = s
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-s.done:
				return
			case snapshot := <-s.updates:
				s.onUpdate(snapshot)
			}
		}
	}()

	// initial snapshot
	go func() {
		snapshot, err := h.loader(context.Background(), userID)
		if err != nil {
			s.fail(err)
			return
		}
		s.push(sanitize(snapshot))
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(s.done)
			h.mu.Lock()
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
		})
	}
}

func (h *Hub) refresh(ctx context.Context, userID string) {
	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs[userID]))
	for _, s := range h.subs[userID] {
		targets = append(targets, s)
	}
	h.mu.Unlock()
	if len(targets) == 0 {
		return
	}

	snapshot, err := h.loader(ctx, userID)
	if err != nil {
		for _, s := range targets {
			s.fail(err)
		}
		return
	}
	snapshot = sanitize(snapshot)
	for _, s := range targets {
		s.push(snapshot)
	}
}

func (h *Hub) failAll(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subs {
		for _, s := range subs {
			s.fail(err)
		}
	}
}

// push delivers latest-wins without ever blocking a writer: a slow subscriber
// loses intermediate snapshots, never stalls the hub.
func (s *subscriber) push(snapshot []models.Category) {
	for {
		select {
		case s.updates <- snapshot:
			return
		default:
			select {
			case <-s.updates:
			default:
			}
		}
	}
}

// sanitize drops malformed stored records (blank names) and enforces name
// ascending order.
func sanitize(cats []models.Category) []models.Category {
	out := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
