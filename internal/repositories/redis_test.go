package repositories

import (
	"context"
	"os"
	"testing"
)

func TestRedisKVUnreachable(t *testing.T) {
	if _, err := NewRedisKV(context.Background(), "127.0.0.1:1", 0, ""); err == nil {
		t.Error("expected connection error")
	}
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("SPIN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SPIN_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	kv, err := NewRedisKV(ctx, addr, 0, "spin-test:")
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer kv.Close()
	defer kv.Delete(ctx, "k")

	t.Run("Round Trip", func(t *testing.T) {
		if err := kv.Set(ctx, "k", "v"); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		v, ok, err := kv.Get(ctx, "k")
		if err != nil || !ok || v != "v" {
			t.Errorf("expected v, got %q ok=%v err=%v", v, ok, err)
		}
	})

	t.Run("Missing Key", func(t *testing.T) {
		_, ok, err := kv.Get(ctx, "absent")
		if err != nil || ok {
			t.Errorf("expected missing key, got ok=%v err=%v", ok, err)
		}
	})
}
