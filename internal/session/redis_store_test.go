package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/recruitment-service/internal/domain"
)

// redisClient connects to TEST_REDIS_ADDR and flushes the selected DB.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("skipping integration test - set TEST_REDIS_ADDR to a disposable redis")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis at %s not reachable: %v", addr, err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStoreLifecycle(t *testing.T) {
	client := redisClient(t)
	store := NewRedisStore(client)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	sess := &Context{ID: "s1", UserID: "user-1", Role: domain.RoleRecruiter, StartedAt: now, LastActivity: now}

	if err := store.Refresh(ctx, sess, time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("refresh before save: expected ErrSessionNotFound, got %v", err)
	}
	if err := store.Save(ctx, sess, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := client.TTL(ctx, redisKeyPrefix+"s1").Val(); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl %s", ttl)
	}

	sess.Touch(now.Add(5 * time.Minute))
	if err := store.Refresh(ctx, sess, time.Minute); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "user-1" || got.Role != domain.RoleRecruiter || !got.LastActivity.Equal(now.Add(5*time.Minute)) {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.Refresh(ctx, sess, time.Minute); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("refresh after delete must not recreate, got %v", err)
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	store := NewRedisStore(client)

	_, err := store.Get(context.Background(), "s1")
	if err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected a connection error, got %v", err)
	}
}
