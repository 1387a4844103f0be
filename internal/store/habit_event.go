package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/habitgrid/internal/model"
)

type HabitEventStore struct {
	db *sql.DB
}

func NewHabitEventStore(db *sql.DB) *HabitEventStore {
	return &HabitEventStore{db: db}
}

func scanHabitEvent(scanner interface{ Scan(...any) error }) (*model.HabitEvent, error) {
	var e model.HabitEvent
	err := scanner.Scan(&e.ID, &e.HabitID, &e.UserID, &e.EventDate, &e.Count, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const habitEventCols = `id, habit_id, user_id, event_date, count, created_at`

func (s *HabitEventStore) Create(userID, habitID int64, day string, count int) (*model.HabitEvent, error) {
	result, err := s.db.Exec(
		`INSERT INTO habit_events (user_id, habit_id, event_date, count) VALUES (?, ?, ?, ?)`,
		userID, habitID, day, count,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+habitEventCols+` FROM habit_events WHERE id = ?`, id)
	return scanHabitEvent(row)
}

// ListInRange returns the user's events with start <= event_date <= end.
func (s *HabitEventStore) ListInRange(userID int64, start, end string) ([]model.HabitEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+habitEventCols+` FROM habit_events
		 WHERE user_id = ? AND event_date >= ? AND event_date <= ?
		 ORDER BY event_date ASC, id ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list habit events in range: %w", err)
	}
	defer rows.Close()
	return collectHabitEvents(rows)
}

func (s *HabitEventStore) ListOnDay(userID int64, day string) ([]model.HabitEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+habitEventCols+` FROM habit_events
		 WHERE user_id = ? AND event_date = ?
		 ORDER BY id ASC`,
		userID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("list habit events on day: %w", err)
	}
	defer rows.Close()
	return collectHabitEvents(rows)
}

// Latest returns the most recently created event for (user, habit, day), or
// nil. Ids are AUTOINCREMENT, so the highest id is the newest row.
func (s *HabitEventStore) Latest(userID, habitID int64, day string) (*model.HabitEvent, error) {
	row := s.db.QueryRow(
		`SELECT `+habitEventCols+` FROM habit_events
		 WHERE user_id = ? AND habit_id = ? AND event_date = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		userID, habitID, day,
	)
	e, err := scanHabitEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest habit event: %w", err)
	}
	return e, nil
}

func (s *HabitEventStore) Delete(userID, id int64) error {
	_, err := s.db.Exec(`DELETE FROM habit_events WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete habit event: %w", err)
	}
	return nil
}

func collectHabitEvents(rows *sql.Rows) ([]model.HabitEvent, error) {
	var events []model.HabitEvent
	for rows.Next() {
		e, err := scanHabitEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
