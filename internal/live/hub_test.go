package live

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"jokehub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(loader CategoryLoader) *Hub {
	return NewHub(nil, loader, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func waitForSnapshot(t *testing.T, ch <-chan []models.Category) []models.Category {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	hub := testHub(func(ctx context.Context, userID string) ([]models.Category, error) {
		return []models.Category{
			{ID: "c2", Name: "Puns", UserID: userID},
			{ID: "c1", Name: "Animals", UserID: userID},
			{ID: "c3", Name: "   ", UserID: userID},
		}, nil
	})

	got := make(chan []models.Category, 1)
	unsubscribe := hub.Subscribe("u1", func(cats []models.Category) {
		got <- cats
	}, nil)
	defer unsubscribe()

	snapshot := waitForSnapshot(t, got)
	require.Len(t, snapshot, 2)
	// blank-name record dropped, remainder name-ascending
	assert.Equal(t, "Animals", snapshot[0].Name)
	assert.Equal(t, "Puns", snapshot[1].Name)
}

func TestRefreshFansOutToAllSubscribers(t *testing.T) {
	var calls atomic.Int64
	hub := testHub(func(ctx context.Context, userID string) ([]models.Category, error) {
		calls.Add(1)
		return []models.Category{{ID: "c1", Name: "Animals", UserID: userID}}, nil
	})

	first := make(chan []models.Category, 4)
	second := make(chan []models.Category, 4)
	unsub1 := hub.Subscribe("u1", func(cats []models.Category) { first <- cats }, nil)
	defer unsub1()
	unsub2 := hub.Subscribe("u1", func(cats []models.Category) { second <- cats }, nil)
	defer unsub2()

	// drain initial snapshots
	waitForSnapshot(t, first)
	waitForSnapshot(t, second)

	hub.refresh(context.Background(), "u1")

	waitForSnapshot(t, first)
	waitForSnapshot(t, second)
	// two initial loads plus one shared refresh load
	assert.Equal(t, int64(3), calls.Load())
}

func TestRefreshIgnoresOtherUsers(t *testing.T) {
	var calls atomic.Int64
	hub := testHub(func(ctx context.Context, userID string) ([]models.Category, error) {
		calls.Add(1)
		return nil, nil
	})

	unsubscribe := hub.Subscribe("u1", func([]models.Category) {}, nil)
	defer unsubscribe()

	// wait for the initial load
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.refresh(context.Background(), "someone-else")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load(), "no subscriber for that user, loader must not run")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := testHub(func(ctx context.Context, userID string) ([]models.Category, error) {
		return []models.Category{{ID: "c1", Name: "Animals", UserID: userID}}, nil
	})

	got := make(chan []models.Category, 4)
	unsubscribe := hub.Subscribe("u1", func(cats []models.Category) { got <- cats }, nil)
	waitForSnapshot(t, got)

	unsubscribe()
	unsubscribe() // disposing twice is harmless

	hub.refresh(context.Background(), "u1")
	select {
	case <-got:
		t.Fatal("snapshot delivered after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLoaderErrorDeliveredOnce(t *testing.T) {
	loadErr := errors.New("connection refused")
	hub := testHub(func(ctx context.Context, userID string) ([]models.Category, error) {
		return nil, loadErr
	})

	var errCount atomic.Int64
	unsubscribe := hub.Subscribe("u1", func([]models.Category) {
		t.Error("no snapshot expected")
	}, func(err error) {
		assert.ErrorIs(t, err, loadErr)
		errCount.Add(1)
	})
	defer unsubscribe()

	assert.Eventually(t, func() bool { return errCount.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// further failures stay silent for this subscription
	hub.refresh(context.Background(), "u1")
	hub.refresh(context.Background(), "u1")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), errCount.Load())
}

func TestPushLatestWins(t *testing.T) {
	s := &subscriber{updates: make(chan []models.Category, 1)}

	s.push([]models.Category{{Name: "stale"}})
	s.push([]models.Category{{Name: "fresh"}})

	snapshot := <-s.updates
	require.Len(t, snapshot, 1)
	assert.Equal(t, "fresh", snapshot[0].Name)
}

func TestSanitize(t *testing.T) {
	out := sanitize([]models.Category{
		{Name: "zebra"},
		{Name: ""},
		{Name: "  "},
		{Name: "apple"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "apple", out[0].Name)
	assert.Equal(t, "zebra", out[1].Name)
}
