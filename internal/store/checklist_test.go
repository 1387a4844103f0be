package store

import "testing"

func TestChecklistCRUD(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChecklistStore(db)
	u := createTestUser(t, db, "alice@example.com")

	item, err := cs.Create(u.ID, "Buy milk")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Text != "Buy milk" {
		t.Errorf("text = %q, want %q", item.Text, "Buy milk")
	}
	if item.Checked {
		t.Error("new item should be unchecked")
	}

	toggled, err := cs.ToggleChecked(u.ID, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Checked {
		t.Error("expected checked after toggle")
	}
	toggled, _ = cs.ToggleChecked(u.ID, item.ID)
	if toggled.Checked {
		t.Error("expected unchecked after second toggle")
	}

	if err := cs.Delete(u.ID, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := cs.GetByID(u.ID, item.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted item")
	}
}

func TestChecklistListNewestFirstPerUser(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChecklistStore(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	first, _ := cs.Create(alice.ID, "first")
	second, _ := cs.Create(alice.ID, "second")
	cs.Create(bob.ID, "bob's")

	items, err := cs.List(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("order = [%d %d], want [%d %d]", items[0].ID, items[1].ID, second.ID, first.ID)
	}
}

func TestChecklistToggleOtherUser(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChecklistStore(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	item, _ := cs.Create(alice.ID, "private")
	got, err := cs.ToggleChecked(bob.ID, item.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got != nil {
		t.Error("bob should not see alice's item")
	}
	mine, _ := cs.GetByID(alice.ID, item.ID)
	if mine.Checked {
		t.Error("alice's item toggled by bob")
	}
}
