package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cloudlet/internal/domain"
)

func newResource(name string, created time.Time) *domain.Resource {
	return &domain.Resource{
		ID:         uuid.New(),
		Service:    "kms",
		Kind:       "Key",
		Name:       name,
		Status:     domain.ResourceStatusActive,
		Attributes: map[string]any{"description": name},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestMemoryRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	res := newResource("alpha", time.Now())

	if err := r.Create(ctx, res); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := r.Create(ctx, newResource("alpha", time.Now())); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := r.Get(ctx, "kms", "Key", res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Attributes["description"] = "mutated"
	again, _ := r.Get(ctx, "kms", "Key", res.ID)
	if again.Attributes["description"] != "alpha" {
		t.Error("stored attributes must not alias returned ones")
	}

	if _, err := r.Get(ctx, "wisdom", "Key", res.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other service, got %v", err)
	}

	got.Name = "beta"
	if err := r.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ = r.Get(ctx, "kms", "Key", res.ID)
	if again.Name != "beta" {
		t.Errorf("expected name beta, got %s", again.Name)
	}

	if err := r.Delete(ctx, "kms", "Key", res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, "kms", "Key", res.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryRepo_ListPages(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		if err := r.Create(ctx, newResource(name, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	var names []string
	var after *domain.PageToken
	pages := 0
	for {
		page, next, err := r.List(ctx, "kms", "Key", 2, after)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		pages++
		for _, res := range page {
			names = append(names, res.Name)
		}
		if next == nil {
			break
		}
		after = next
	}

	if pages != 3 {
		t.Errorf("expected 3 pages, got %d", pages)
	}
	if len(names) != 5 || names[0] != "a" || names[4] != "e" {
		t.Errorf("unexpected order: %v", names)
	}
}
