package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/habitgrid/internal/model"
)

type ChecklistStore struct {
	db *sql.DB
}

func NewChecklistStore(db *sql.DB) *ChecklistStore {
	return &ChecklistStore{db: db}
}

func scanChecklistItem(scanner interface{ Scan(...any) error }) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	err := scanner.Scan(&item.ID, &item.UserID, &item.Text, &item.Checked, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

const checklistCols = `id, user_id, text, checked, created_at`

func (s *ChecklistStore) Create(userID int64, text string) (*model.ChecklistItem, error) {
	result, err := s.db.Exec(`INSERT INTO checklist_items (user_id, text) VALUES (?, ?)`, userID, text)
	if err != nil {
		return nil, fmt.Errorf("insert checklist item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *ChecklistStore) GetByID(userID, id int64) (*model.ChecklistItem, error) {
	row := s.db.QueryRow(`SELECT `+checklistCols+` FROM checklist_items WHERE id = ? AND user_id = ?`, id, userID)
	item, err := scanChecklistItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get checklist item: %w", err)
	}
	return item, nil
}

// List returns the user's items, newest first.
func (s *ChecklistStore) List(userID int64) ([]model.ChecklistItem, error) {
	rows, err := s.db.Query(
		`SELECT `+checklistCols+` FROM checklist_items WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	var items []model.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ChecklistStore) ToggleChecked(userID, id int64) (*model.ChecklistItem, error) {
	_, err := s.db.Exec(
		`UPDATE checklist_items SET checked = NOT checked WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle checklist item: %w", err)
	}
	return s.GetByID(userID, id)
}

func (s *ChecklistStore) Delete(userID, id int64) error {
	_, err := s.db.Exec(`DELETE FROM checklist_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	return nil
}
