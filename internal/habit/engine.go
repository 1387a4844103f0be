// Package habit aggregates habit events into per-day totals and per-habit
// breakdowns, and shapes them into a month calendar for display.
package habit

import (
	"time"

	"github.com/dukerupert/habitgrid/internal/model"
)

// EventStore is the habit event relation the engine reads and writes.
// Every method is scoped by userID.
type EventStore interface {
	ListInRange(userID int64, start, end string) ([]model.HabitEvent, error)
	ListOnDay(userID int64, day string) ([]model.HabitEvent, error)
	Latest(userID, habitID int64, day string) (*model.HabitEvent, error)
	Create(userID, habitID int64, day string, count int) (*model.HabitEvent, error)
	Delete(userID, id int64) error
}

// HabitLookup resolves habit metadata. Both methods return habits in
// default order, newest first.
type HabitLookup interface {
	List(userID int64) ([]model.Habit, error)
	ListByIDs(userID int64, ids []int64) ([]model.Habit, error)
}

// DayDetail is one habit's completion count on a single day.
type DayDetail struct {
	HabitID     int64  `json:"habit_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

type Engine struct {
	events EventStore
	habits HabitLookup
	loc    *time.Location
	now    func() time.Time
}

// NewEngine builds an engine whose day boundaries follow loc.
func NewEngine(events EventStore, habits HabitLookup, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{events: events, habits: habits, loc: loc, now: time.Now}
}

func (e *Engine) Location() *time.Location { return e.loc }

// Now is the current instant in the engine's location.
func (e *Engine) Now() time.Time { return e.now().In(e.loc) }

// Today is the current day key.
func (e *Engine) Today() string { return FormatDate(e.Now()) }

// MonthTotals sums event counts per day for every day of the month. Days
// without events are absent. On failure no partial map is returned.
func (e *Engine) MonthTotals(userID int64, year int, month time.Month) (map[string]int, error) {
	start := FormatDate(StartOfMonth(year, month, e.loc))
	end := FormatDate(EndOfMonth(year, month, e.loc))

	rows, err := e.events.ListInRange(userID, start, end)
	if err != nil {
		return nil, &StoreQueryError{Op: "month totals", Err: err}
	}

	totals := make(map[string]int)
	for _, row := range rows {
		if row.EventDate < start || row.EventDate > end || row.Count <= 0 {
			continue
		}
		totals[row.EventDate] += row.Count
	}
	return totals, nil
}

// DayDetail sums the day's events per habit and joins them with habit
// metadata. Habits that cannot be resolved are left out; if the lookup
// itself fails the result is empty, never partially joined.
func (e *Engine) DayDetail(userID int64, day string) ([]DayDetail, error) {
	if !ValidDate(day) {
		return []DayDetail{}, ErrInvalidDate
	}

	rows, err := e.events.ListOnDay(userID, day)
	if err != nil {
		return []DayDetail{}, &StoreQueryError{Op: "day events", Err: err}
	}

	counts := make(map[int64]int)
	var ids []int64
	for _, row := range rows {
		if row.EventDate != day || row.Count <= 0 {
			continue
		}
		if _, seen := counts[row.HabitID]; !seen {
			ids = append(ids, row.HabitID)
		}
		counts[row.HabitID] += row.Count
	}

	nonZero := ids[:0]
	for _, id := range ids {
		if counts[id] > 0 {
			nonZero = append(nonZero, id)
		}
	}
	if len(nonZero) == 0 {
		return []DayDetail{}, nil
	}

	habits, err := e.habits.ListByIDs(userID, nonZero)
	if err != nil {
		return []DayDetail{}, &StoreQueryError{Op: "habit lookup", Err: err}
	}

	details := make([]DayDetail, 0, len(habits))
	for _, h := range habits {
		n, ok := counts[h.ID]
		if !ok || n <= 0 {
			continue
		}
		details = append(details, DayDetail{
			HabitID:     h.ID,
			Name:        h.Name,
			Description: h.Description,
			Count:       n,
		})
	}
	return details, nil
}

// HabitsForDay lists every habit the user owns with its count on day,
// zero included.
func (e *Engine) HabitsForDay(userID int64, day string) ([]DayDetail, error) {
	if !ValidDate(day) {
		return []DayDetail{}, ErrInvalidDate
	}

	habits, err := e.habits.List(userID)
	if err != nil {
		return []DayDetail{}, &StoreQueryError{Op: "list habits", Err: err}
	}
	rows, err := e.events.ListOnDay(userID, day)
	if err != nil {
		return []DayDetail{}, &StoreQueryError{Op: "day events", Err: err}
	}

	counts := make(map[int64]int)
	for _, row := range rows {
		if row.Count <= 0 {
			continue
		}
		counts[row.HabitID] += row.Count
	}

	out := make([]DayDetail, 0, len(habits))
	for _, h := range habits {
		out = append(out, DayDetail{
			HabitID:     h.ID,
			Name:        h.Name,
			Description: h.Description,
			Count:       counts[h.ID],
		})
	}
	return out, nil
}

// RecordIncrement appends one event with count 1. It never merges with
// existing rows.
func (e *Engine) RecordIncrement(userID, habitID int64, day string) (*model.HabitEvent, error) {
	return e.RecordCount(userID, habitID, day, 1)
}

// RecordCount appends one event carrying an explicit count in [1, MaxCount].
func (e *Engine) RecordCount(userID, habitID int64, day string, count int) (*model.HabitEvent, error) {
	if !ValidDate(day) {
		return nil, ErrInvalidDate
	}
	if count < 1 || count > MaxCount {
		return nil, ErrInvalidCount
	}

	ev, err := e.events.Create(userID, habitID, day, count)
	if err != nil {
		return nil, &StoreWriteError{Op: "insert event", Err: err}
	}
	return ev, nil
}

// RecordDecrement deletes the most recently created event for
// (user, habit, day) and returns it. With nothing to delete it returns
// (nil, nil).
func (e *Engine) RecordDecrement(userID, habitID int64, day string) (*model.HabitEvent, error) {
	if !ValidDate(day) {
		return nil, ErrInvalidDate
	}

	latest, err := e.events.Latest(userID, habitID, day)
	if err != nil {
		return nil, &StoreQueryError{Op: "latest event", Err: err}
	}
	if latest == nil {
		return nil, nil
	}

	if err := e.events.Delete(userID, latest.ID); err != nil {
		return nil, &StoreWriteError{Op: "delete event", Err: err}
	}
	return latest, nil
}
