package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/procureflow/intake/workflow"
)

func storedSession(t *testing.T) workflow.Session {
	t.Helper()

	steps := newTestSteps(t)
	session := workflow.NewSession(1)
	session, err := workflow.Reduce(steps, session, workflow.Complete{Data: map[string]any{"productName": "laptops", "budgetUsd": 50000.0}})
	if err != nil {
		t.Fatalf("failed to prepare session: %v", err)
	}
	return session
}

func testStoreRoundtrip(t *testing.T, store workflow.SessionStore) {
	t.Helper()
	ctx := context.Background()

	session := storedSession(t)
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.ID != session.ID {
		t.Errorf("expected id %s, got %s", session.ID, loaded.ID)
	}
	if !loaded.Completed(1) {
		t.Errorf("expected step 1 completed, got %v", loaded.CompletedSteps)
	}
	if got := loaded.Data(1)["productName"]; got != "laptops" {
		t.Errorf("expected productName laptops, got %v", got)
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != session.ID {
		t.Errorf("expected [%s], got %v", session.ID, ids)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Load(ctx, session.ID); !errors.Is(err, workflow.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting a missing id is not an error.
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("delete of missing id failed: %v", err)
	}
}

func TestMemorySessionStore(t *testing.T) {
	testStoreRoundtrip(t, workflow.NewMemorySessionStore())
}

func TestFileSessionStore(t *testing.T) {
	testStoreRoundtrip(t, workflow.NewFileSessionStore(t.TempDir()))
}

func TestFileSessionStore_ListEmptyRoot(t *testing.T) {
	store := workflow.NewFileSessionStore("/nonexistent/sessions")

	ids, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	store := workflow.NewMemorySessionStore()

	session := storedSession(t)
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Mutating the caller's copy after save must not affect the snapshot.
	session.StepData[1]["productName"] = "tampered"

	loaded, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := loaded.Data(1)["productName"]; got != "laptops" {
		t.Errorf("stored snapshot shares state with caller: %v", got)
	}
}

func TestSessionStoreRegistry(t *testing.T) {
	if _, err := workflow.GetSessionStore("memory"); err != nil {
		t.Errorf("expected memory store registered: %v", err)
	}

	if _, err := workflow.GetSessionStore("missing"); err == nil {
		t.Error("expected error for unregistered store")
	}

	workflow.RegisterSessionStore("file-test", workflow.NewFileSessionStore(t.TempDir()))
	if _, err := workflow.GetSessionStore("file-test"); err != nil {
		t.Errorf("expected registered store to resolve: %v", err)
	}
}
