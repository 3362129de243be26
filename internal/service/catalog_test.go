package service

import (
	"context"
	"errors"
	"testing"

	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/store"
)

func TestCatalogCreateAndListByTheme(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, testLogger())
	owner := seedUser(t, st, "alice", "Alice")

	item, err := svc.Create(context.Background(), owner, &model.CreateItemRequest{
		Title:       "Record player",
		Description: "Works perfectly, belt replaced last year.",
		Category:    "electronics",
		Condition:   model.ConditionGood,
		ThemeID:     "1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Status != model.ItemStatusAvailable {
		t.Errorf("new item status = %q, want available", item.Status)
	}
	if item.Votes != 0 {
		t.Errorf("new item votes = %d, want 0", item.Votes)
	}
	if item.OwnerName != "Alice" {
		t.Errorf("owner name = %q, want Alice", item.OwnerName)
	}

	listed := svc.ListByTheme(context.Background(), "1")
	if len(listed) != 1 || listed[0].ID != item.ID {
		t.Fatalf("ListByTheme returned %d items, want the created one", len(listed))
	}
}

func TestCatalogCreateDefaultsToNoTheme(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, testLogger())
	owner := seedUser(t, st, "alice", "Alice")

	item, err := svc.Create(context.Background(), owner, &model.CreateItemRequest{
		Title:       "Desk lamp",
		Description: "Adjustable arm, warm bulb included.",
		Condition:   model.ConditionExcellent,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ThemeID != model.ThemeNone {
		t.Errorf("theme id = %q, want %q", item.ThemeID, model.ThemeNone)
	}
}

func TestCatalogCreateValidation(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, testLogger())
	owner := seedUser(t, st, "alice", "Alice")

	cases := []struct {
		name string
		req  *model.CreateItemRequest
	}{
		{"missing title", &model.CreateItemRequest{Description: "d", Condition: model.ConditionGood}},
		{"missing description", &model.CreateItemRequest{Title: "t", Condition: model.ConditionGood}},
		{"bad condition", &model.CreateItemRequest{Title: "t", Description: "d", Condition: "mint"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), owner, tc.req); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCatalogUpdateKeepsUnsetFields(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, testLogger())
	owner := seedUser(t, st, "alice", "Alice")

	item, err := svc.Create(context.Background(), owner, &model.CreateItemRequest{
		Title:       "Bookshelf",
		Description: "Solid pine, five shelves.",
		Condition:   model.ConditionGood,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), item.ID, &model.UpdateItemRequest{
		Title: "Pine bookshelf",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Pine bookshelf" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Description != item.Description {
		t.Errorf("description changed to %q", updated.Description)
	}
	if updated.Condition != item.Condition {
		t.Errorf("condition changed to %q", updated.Condition)
	}
}

func TestCatalogVoteIncrements(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, testLogger())
	owner := seedUser(t, st, "alice", "Alice")

	item, err := svc.Create(context.Background(), owner, &model.CreateItemRequest{
		Title:       "Tennis racket",
		Description: "Recently restrung.",
		Condition:   model.ConditionFair,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for want := 1; want <= 3; want++ {
		votes, err := svc.Vote(context.Background(), item.ID)
		if err != nil {
			t.Fatalf("vote: %v", err)
		}
		if votes != want {
			t.Errorf("votes = %d, want %d", votes, want)
		}
	}
}

func TestCatalogDeleteRemovesItem(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, testLogger())
	owner := seedUser(t, st, "alice", "Alice")

	item, err := svc.Create(context.Background(), owner, &model.CreateItemRequest{
		Title:       "Kettle",
		Description: "Whistles.",
		Condition:   model.ConditionGood,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), item.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get after delete: %v, want ErrNotFound", err)
	}
}
