package syncq

import (
	"context"
	"errors"
	"testing"

	"seedround/internal/game"
)

func TestPushReplacesSameKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Push(Pending{Result: game.Result{SessionID: "a", Score: 1}}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := Push(Pending{Result: game.Result{SessionID: "a", Score: 2}}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := Push(Pending{Result: game.Result{SessionID: "b", Score: 3}}); err != nil {
		t.Fatalf("push: %v", err)
	}
	items, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 2 || items[0].Result.Score != 2 || items[0].IdempotencyKey != "a" {
		t.Fatalf("unexpected queue %+v", items)
	}
}

func TestDrainKeepsFailures(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, id := range []string{"ok", "bad"} {
		if err := Push(Pending{Result: game.Result{SessionID: id}}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}

	sent, err := Drain(context.Background(), func(_ context.Context, p Pending) error {
		if p.IdempotencyKey == "bad" {
			return errors.New("offline")
		}
		return nil
	})
	if sent != 1 || err == nil {
		t.Fatalf("expected one sent and an error, got %d %v", sent, err)
	}
	items, _ := Load()
	if len(items) != 1 || items[0].IdempotencyKey != "bad" || items[0].Attempts != 1 || items[0].LastError != "offline" {
		t.Fatalf("unexpected remaining queue %+v", items)
	}
}

func TestLoadEmptyQueue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	items, err := Load()
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty queue, got %v %v", items, err)
	}
}
