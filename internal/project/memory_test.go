package project

import (
	"context"
	"errors"
	"testing"

	"github.com/lukasclt/Lumina/internal/timeline"
)

func TestMemoryRepository_SaveAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	p := New("Edit")

	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != p.ID || saved.Name != "Edit" {
		t.Errorf("round trip lost fields: %+v", saved)
	}
}

func TestMemoryRepository_FindByID_NotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.FindByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestMemoryRepository_FindByID_ReturnsClone(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	p := New("Edit")
	_ = repo.Save(ctx, p)

	found, _ := repo.FindByID(ctx, p.ID)
	if _, err := found.Timeline.AddSegment(timeline.NewSegment(0, 0, 3)); err != nil {
		t.Fatal(err)
	}

	original, _ := repo.FindByID(ctx, p.ID)
	if got := len(original.Timeline.AllSegments()); got != 0 {
		t.Errorf("editing a returned project leaked into the repository: %d segments", got)
	}
}

func TestMemoryRepository_List(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	projects, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("expected 0 projects, got %d", len(projects))
	}

	_ = repo.Save(ctx, New("A"))
	_ = repo.Save(ctx, New("B"))

	projects, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("expected 2 projects, got %d", len(projects))
	}
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	p := New("Edit")
	_ = repo.Save(ctx, p)

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.FindByID(ctx, p.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, p.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound for double delete, got %v", err)
	}
}

func TestMemoryRepository_ConcurrentAccess(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			_ = repo.Save(ctx, New(""))
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			_, _ = repo.List(ctx)
		}
		done <- true
	}()

	<-done
	<-done
}
