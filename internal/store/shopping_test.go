package store

import (
	"testing"

	"eliteagenda/internal/database"
)

func setupShoppingTestDB(t *testing.T) *ShoppingStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewShoppingStore(db)
}

func TestShoppingCreateAndGet(t *testing.T) {
	s := setupShoppingTestDB(t)

	item, err := s.Create("Milk", 4.5, 2)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Name != "Milk" {
		t.Errorf("name = %q, want %q", item.Name, "Milk")
	}
	if item.Value != 4.5 {
		t.Errorf("value = %v, want 4.5", item.Value)
	}
	if item.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", item.Quantity)
	}
	if item.Completed {
		t.Error("new item should not be completed")
	}
	if got := item.Subtotal(); got != 9.0 {
		t.Errorf("subtotal = %v, want 9.0", got)
	}
}

func TestShoppingGetNotFound(t *testing.T) {
	s := setupShoppingTestDB(t)

	got, err := s.GetByID(42)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent item")
	}
}

func TestShoppingUpdate(t *testing.T) {
	s := setupShoppingTestDB(t)

	item, err := s.Create("Bread", 2.0, 1)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	got, err := s.Update(item.ID, "Whole Grain Bread", 3.25, 2)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if got.Name != "Whole Grain Bread" {
		t.Errorf("name = %q, want %q", got.Name, "Whole Grain Bread")
	}
	if got.Value != 3.25 || got.Quantity != 2 {
		t.Errorf("value = %v quantity = %d, want 3.25 and 2", got.Value, got.Quantity)
	}
}

func TestShoppingToggleCompleted(t *testing.T) {
	s := setupShoppingTestDB(t)

	item, err := s.Create("Eggs", 6.0, 1)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	got, err := s.ToggleCompleted(item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.Completed {
		t.Error("expected completed after first toggle")
	}

	got, err = s.ToggleCompleted(item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.Completed {
		t.Error("expected not completed after second toggle")
	}
}

func TestShoppingClearCompleted(t *testing.T) {
	s := setupShoppingTestDB(t)

	a, _ := s.Create("Apples", 3.0, 1)
	b, _ := s.Create("Bananas", 2.0, 1)
	if _, err := s.Create("Cereal", 5.0, 1); err != nil {
		t.Fatalf("create item: %v", err)
	}

	s.ToggleCompleted(a.ID)
	s.ToggleCompleted(b.ID)

	n, err := s.ClearCompleted()
	if err != nil {
		t.Fatalf("clear completed: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Cereal" {
		t.Errorf("unexpected remaining items: %v", items)
	}
}

func TestShoppingDelete(t *testing.T) {
	s := setupShoppingTestDB(t)

	item, err := s.Create("Doomed", 1.0, 1)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := s.Delete(item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	got, err := s.GetByID(item.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}
