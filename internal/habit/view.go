package habit

import (
	"errors"
	"sync"
	"time"
)

// View is one session's calendar screen: the displayed month, the selected
// day, and the last totals and day detail read for them. Refresh rebuilds
// both from a fresh read; a failed totals read keeps the previous totals.
type View struct {
	mu sync.Mutex

	userID   int64
	year     int
	month    time.Month
	selected string

	totals  map[string]int
	detail  []DayDetail
	lastErr error
}

// Snapshot is an immutable copy of a View ready for rendering.
type Snapshot struct {
	Year     int            `json:"year"`
	Month    int            `json:"month"`
	Selected string         `json:"selected"`
	Cells    []CalendarCell `json:"cells"`
	Detail   []DayDetail    `json:"detail"`
	Stale    bool           `json:"stale"`
}

// NewView opens on now's month with now's day selected.
func NewView(userID int64, now time.Time) *View {
	return &View{
		userID:   userID,
		year:     now.Year(),
		month:    now.Month(),
		selected: FormatDate(now),
		totals:   map[string]int{},
		detail:   []DayDetail{},
	}
}

func (v *View) UserID() int64 { return v.userID }

// Select makes day the selected day and shows its month.
func (v *View) Select(day string) error {
	if !ValidDate(day) {
		return ErrInvalidDate
	}
	t, _ := time.Parse(DateLayout, day)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = day
	v.year, v.month = t.Year(), t.Month()
	return nil
}

// JumpToToday shows now's month and selects now's day.
func (v *View) JumpToToday(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.year, v.month = now.Year(), now.Month()
	v.selected = FormatDate(now)
}

// ShowMonth changes the displayed month without touching the selection.
func (v *View) ShowMonth(year int, month time.Month) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.year, v.month = AddMonths(year, month, 0)
}

func (v *View) PrevMonth() { v.shift(-1) }

func (v *View) NextMonth() { v.shift(1) }

func (v *View) shift(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.year, v.month = AddMonths(v.year, v.month, n)
}

// Refresh re-reads the displayed month's totals and the selected day's
// detail. Both reads are attempted; their failures are joined.
func (v *View) Refresh(e *Engine) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	var errs []error

	totals, err := e.MonthTotals(v.userID, v.year, v.month)
	if err != nil {
		errs = append(errs, err)
	} else {
		v.totals = totals
	}

	detail, err := e.DayDetail(v.userID, v.selected)
	if err != nil {
		errs = append(errs, err)
	}
	v.detail = detail

	v.lastErr = errors.Join(errs...)
	return v.lastErr
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	detail := make([]DayDetail, len(v.detail))
	copy(detail, v.detail)

	return Snapshot{
		Year:     v.year,
		Month:    int(v.month),
		Selected: v.selected,
		Cells:    BuildGrid(v.year, v.month, v.totals, v.selected),
		Detail:   detail,
		Stale:    v.lastErr != nil,
	}
}
