package model

import "time"

type Habit struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HabitEvent is one recorded unit of completion. EventDate is a YYYY-MM-DD
// day key with no time component.
type HabitEvent struct {
	ID        int64     `json:"id"`
	HabitID   int64     `json:"habit_id"`
	UserID    int64     `json:"user_id"`
	EventDate string    `json:"event_date"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}
