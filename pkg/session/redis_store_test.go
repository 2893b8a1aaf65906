package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type stubBackend struct {
	data     map[string]string
	lastTTL  time.Duration
	getCalls int
}

func newStubBackend() *stubBackend {
	return &stubBackend{data: map[string]string{}}
}

func (s *stubBackend) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = value.(string)
	s.lastTTL = ttl
	return nil
}

func (s *stubBackend) Get(ctx context.Context, key string) (string, error) {
	s.getCalls++
	v, ok := s.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (s *stubBackend) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

type stubKeyer struct{}

func (stubKeyer) SessionKey(sessionID string) string { return "ip:session:" + sessionID }

func TestRedisStoreRoundTrip(t *testing.T) {
	backend := newStubBackend()
	store := &RedisStore{backend: backend, keyer: stubKeyer{}, ttl: time.Hour}
	ctx := context.Background()

	data := NewData()
	data.Cart["42"] = Line{PartNumber: "PN-42", Description: "valve", Quantity: 2}
	data.QuoteID = "Q-77"

	if err := store.Put(ctx, "sess-1", data); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if backend.lastTTL != time.Hour {
		t.Fatalf("expected ttl refresh, got %v", backend.lastTTL)
	}

	loaded, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.QuoteID != "Q-77" {
		t.Fatalf("unexpected quote id %q", loaded.QuoteID)
	}
	line, ok := loaded.Cart["42"]
	if !ok || line.Quantity != 2 || line.PartNumber != "PN-42" {
		t.Fatalf("unexpected cart line %+v", line)
	}
}

func TestRedisStoreMissingSessionIsEmpty(t *testing.T) {
	store := &RedisStore{backend: newStubBackend(), keyer: stubKeyer{}, ttl: time.Hour}

	data, err := store.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("missing session must not error: %v", err)
	}
	if data.CartCount() != 0 {
		t.Fatalf("expected empty cart, got count %d", data.CartCount())
	}
	if data.Cart == nil {
		t.Fatal("cart map must be initialized")
	}
}

func TestRedisStoreCorruptBlobResetsSession(t *testing.T) {
	backend := newStubBackend()
	backend.data["ip:session:bad"] = "{not json"
	store := &RedisStore{backend: backend, keyer: stubKeyer{}, ttl: time.Hour}

	data, err := store.Get(context.Background(), "bad")
	if err != nil {
		t.Fatalf("corrupt session must not error: %v", err)
	}
	if data.CartCount() != 0 {
		t.Fatal("expected session reset")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	backend := newStubBackend()
	store := &RedisStore{backend: backend, keyer: stubKeyer{}, ttl: time.Hour}
	ctx := context.Background()

	if err := store.Put(ctx, "sess-1", NewData()); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := backend.data["ip:session:sess-1"]; ok {
		t.Fatal("expected session removal")
	}
}

func TestRedisStoreRequiresSessionID(t *testing.T) {
	store := &RedisStore{backend: newStubBackend(), keyer: stubKeyer{}, ttl: time.Hour}
	if err := store.Put(context.Background(), " ", NewData()); err == nil {
		t.Fatal("expected error for blank session id")
	}
}
