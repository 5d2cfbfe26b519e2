package store

import (
	"context"
	"testing"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
)

func TestMemoryJournalAppendsInOrder(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()

	j.Append(ctx, model.JournalEntry{Source: "a"})
	j.Append(ctx, model.JournalEntry{Source: "b"})

	entries := j.Entries()
	if len(entries) != 2 || entries[0].Source != "a" || entries[1].Source != "b" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestMemorySnapshotCacheSetGet(t *testing.T) {
	c := NewMemorySnapshotCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("hello"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(v) != "hello" {
		t.Errorf("expected to retrieve stored value, got v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestMemorySnapshotCacheExpiresTTL(t *testing.T) {
	c := NewMemorySnapshotCache()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("hello"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected expired key to be absent")
	}
}

func TestMemorySnapshotCacheMissingKey(t *testing.T) {
	c := NewMemorySnapshotCache()
	_, ok, err := c.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected missing key to report not found")
	}
}
