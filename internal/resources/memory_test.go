package resources

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 1 || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected created resource: %+v", created)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil || got.Title != "Write a strong CV" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	premium := true
	title := "Updated"
	updated, err := store.Update(ctx, created.ID, UpdateInput{Title: &title, IsPremium: &premium})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Updated" || !updated.IsPremium || updated.URL != created.URL {
		t.Fatalf("partial update applied incorrectly: %+v", updated)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Update(ctx, 42, UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	seed := []CreateInput{
		{Title: "a", Description: "d", URL: "u", Category: "cv", ResourceType: TypeArticle},
		{Title: "b", Description: "d", URL: "u", Category: "linkedin", ResourceType: TypePrompt, IsPremium: true},
		{Title: "c", Description: "d", URL: "u", Category: "cv", ResourceType: TypePrompt},
	}
	for _, in := range seed {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	titles := func(items []Resource) string {
		var out string
		for _, r := range items {
			out += r.Title
		}
		return out
	}

	all, _ := store.List(ctx)
	premium, _ := store.ListPremium(ctx)
	byCategory, _ := store.ListByCategory(ctx, "cv")
	byType, _ := store.ListByType(ctx, TypePrompt)
	both, _ := store.ListByTypeAndCategory(ctx, TypePrompt, "cv")
	none, _ := store.ListByCategory(ctx, "jobsamtale")

	cases := map[string]struct{ got, want string }{
		"all":      {titles(all), "abc"},
		"premium":  {titles(premium), "b"},
		"category": {titles(byCategory), "ac"},
		"type":     {titles(byType), "bc"},
		"both":     {titles(both), "c"},
	}
	for name, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %q, want %q", name, tc.got, tc.want)
		}
	}

	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}

func TestMemoryStoreRejectsInvalidInput(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Create(context.Background(), CreateInput{}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if all, _ := store.List(context.Background()); len(all) != 0 {
		t.Fatalf("invalid input must not be stored, got %d items", len(all))
	}
}
