package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

func TestMockStorage_SaveAndLoadSession(t *testing.T) {
	ms := NewMockStorage()
	ctx := context.Background()

	sess := state.NewSession("en")
	sess.Day = 4
	sess.Player.Inventory = []string{"Rusty Key"}

	if err := ms.SaveSession(ctx, sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	sess.Player.Inventory[0] = "changed"

	loaded, err := ms.LoadSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected non-nil session")
	}
	if loaded.Day != 4 {
		t.Errorf("Expected day 4, got %d", loaded.Day)
	}
	if loaded.Player.Inventory[0] != "Rusty Key" {
		t.Errorf("Expected stored copy to be isolated, got %v", loaded.Player.Inventory)
	}
}

func TestMockStorage_LoadNonExistentSession(t *testing.T) {
	ms := NewMockStorage()
	loaded, err := ms.LoadSession(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error for non-existent session, got: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil for non-existent session")
	}
}

func TestMockStorage_Journal(t *testing.T) {
	ms := NewMockStorage()
	ctx := context.Background()
	id := uuid.New()

	_ = ms.AppendJournal(ctx, id, state.JournalEntry{Day: 1, Kind: state.EntryNarrative, Text: "one"})
	_ = ms.AppendJournal(ctx, id,
		state.JournalEntry{Day: 1, Kind: state.EntryResult, Text: "two"},
		state.JournalEntry{Day: 2, Kind: state.EntryNarrative, Text: "three"},
	)

	entries, err := ms.Journal(ctx, id)
	if err != nil {
		t.Fatalf("Failed to read journal: %v", err)
	}
	if len(entries) != 3 || entries[0].Text != "one" || entries[2].Text != "three" {
		t.Errorf("Unexpected journal %v", entries)
	}

	if err := ms.DeleteSession(ctx, id); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	entries, _ = ms.Journal(ctx, id)
	if len(entries) != 0 {
		t.Errorf("Expected journal removed with session, got %v", entries)
	}
}

func TestMockStorage_Ping(t *testing.T) {
	ms := NewMockStorage()
	if err := ms.Ping(context.Background()); err != nil {
		t.Errorf("Expected ping success, got %v", err)
	}
	ms.SetPingError(errors.New("down"))
	if err := ms.Ping(context.Background()); err == nil {
		t.Error("Expected ping error")
	}
	ms.SetPingSuccess()
	if err := ms.Ping(context.Background()); err != nil {
		t.Errorf("Expected ping success after reset, got %v", err)
	}
}

func TestMockStorage_SaveNil(t *testing.T) {
	if err := NewMockStorage().SaveSession(context.Background(), nil); err == nil {
		t.Error("Expected error saving nil session")
	}
}
