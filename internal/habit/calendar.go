package habit

import "time"

// CalendarCell is one position in a seven-column, Monday-first month grid.
// Padding cells carry no day.
type CalendarCell struct {
	Padding    bool   `json:"padding"`
	DayNumber  int    `json:"day,omitempty"`
	Date       string `json:"date,omitempty"`
	Total      int    `json:"total"`
	IsSelected bool   `json:"selected"`
}

// LeadingPadding is the number of blank cells before day 1 in a
// Monday-first week.
func LeadingPadding(year int, month time.Month) int {
	first := StartOfMonth(year, month, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// BuildGrid lays out the month: leading padding, then one cell per day in
// ascending order with its total (0 when absent from totals). The last row
// is not padded.
func BuildGrid(year int, month time.Month, totals map[string]int, selectedDay string) []CalendarCell {
	pad := LeadingPadding(year, month)
	days := DaysInMonth(year, month)

	cells := make([]CalendarCell, 0, pad+days)
	for i := 0; i < pad; i++ {
		cells = append(cells, CalendarCell{Padding: true})
	}
	for d := 1; d <= days; d++ {
		date := FormatDate(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
		cells = append(cells, CalendarCell{
			DayNumber:  d,
			Date:       date,
			Total:      totals[date],
			IsSelected: date == selectedDay,
		})
	}
	return cells
}
