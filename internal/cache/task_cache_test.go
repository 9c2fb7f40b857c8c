package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKey(t *testing.T) {
	if got := Key("alice"); got != "tasks:alice" {
		t.Fatalf("Key = %q", got)
	}
}

// An unreachable server must surface errors rather than fake hits.
func TestTaskCacheUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := NewTaskCache(rdb, time.Minute)
	ctx := context.Background()

	list, err := c.GetList(ctx, "alice")
	if err == nil || errors.Is(err, redis.Nil) {
		t.Fatalf("GetList: expected connection error, got %v", err)
	}
	if list != nil {
		t.Fatalf("GetList returned %v on error", list)
	}
	if err := c.SetList(ctx, "alice", nil); err == nil {
		t.Fatal("SetList: expected connection error")
	}
	if err := c.Ping(ctx); err == nil {
		t.Fatal("Ping: expected connection error")
	}
}
