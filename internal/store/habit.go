package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/habitgrid/internal/model"
)

type HabitStore struct {
	db *sql.DB
}

func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db}
}

func scanHabit(scanner interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	err := scanner.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const (
	habitCols  = `id, user_id, name, description, created_at, updated_at`
	habitOrder = `ORDER BY created_at DESC, id DESC`
)

func (s *HabitStore) Create(userID int64, name, description string) (*model.Habit, error) {
	result, err := s.db.Exec(
		`INSERT INTO habits (user_id, name, description) VALUES (?, ?, ?)`,
		userID, name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(userID, id)
}

// GetByID returns the habit only when it belongs to userID.
func (s *HabitStore) GetByID(userID, id int64) (*model.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitCols+` FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

func (s *HabitStore) List(userID int64) ([]model.Habit, error) {
	rows, err := s.db.Query(`SELECT `+habitCols+` FROM habits WHERE user_id = ? `+habitOrder, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()
	return collectHabits(rows)
}

// ListByIDs resolves a batch of habit ids in one query. Ids owned by other
// users, or no longer present, are silently absent from the result.
func (s *HabitStore) ListByIDs(userID int64, ids []int64) ([]model.Habit, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	rows, err := s.db.Query(
		`SELECT `+habitCols+` FROM habits WHERE user_id = ? AND id IN (`+placeholders+`) `+habitOrder,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list habits by ids: %w", err)
	}
	defer rows.Close()
	return collectHabits(rows)
}

func (s *HabitStore) Update(userID, id int64, name, description string) (*model.Habit, error) {
	_, err := s.db.Exec(
		`UPDATE habits SET name = ?, description = ? WHERE id = ? AND user_id = ?`,
		name, description, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	return s.GetByID(userID, id)
}

// Delete removes the habit. Its events are left in place.
func (s *HabitStore) Delete(userID, id int64) error {
	_, err := s.db.Exec(`DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

func collectHabits(rows *sql.Rows) ([]model.Habit, error) {
	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}
