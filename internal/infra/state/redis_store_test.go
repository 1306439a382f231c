package state

import (
	"context"
	"testing"
	"time"

	"sentinela_corte_bot/internal/domain/report"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) *RedisStore {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, quietLogger())
}

func TestRedisStoreEmptyOnFirstRun(t *testing.T) {
	store := setupRedisStore(t)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.LastSentDate.IsZero() || got.LastClosingPeriod != "" {
		t.Fatalf("expected empty state, got %+v", got)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	want := report.RunState{
		LastSentDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		LastClosingPeriod: "2024-02",
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.LastSentDate.Equal(want.LastSentDate) {
		t.Fatalf("expected last sent %v, got %v", want.LastSentDate, got.LastSentDate)
	}
	if got.LastClosingPeriod != want.LastClosingPeriod {
		t.Fatalf("expected closing key %q, got %q", want.LastClosingPeriod, got.LastClosingPeriod)
	}
}

func TestRedisStoreInvalidDateLoadsEmpty(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	mr.HSet(redisStateKey, fieldLastSent, "not-a-date")

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := NewRedisStore(client, quietLogger())

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.LastSentDate.IsZero() {
		t.Fatalf("invalid stored date must load as empty, got %+v", got)
	}
}
