package services

import (
	"time"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

const (
	GridWeeks = 6
	GridCells = GridWeeks * 7
)

type CalendarCell[T domain.Dated] struct {
	Date           time.Time `json:"date"`
	Day            int       `json:"day"`
	IsCurrentMonth bool      `json:"is_current_month"`
	Items          []T       `json:"items"`
}

type MonthGrid[T domain.Dated] struct {
	Year  int               `json:"year"`
	Month time.Month        `json:"month"`
	Cells []CalendarCell[T] `json:"cells"`
}

// BuildMonthGrid lays month out on a Sunday-first 6x7 grid. Cells of the
// neighbouring months only carry their day number; items are placed on
// in-month cells by calendar day in loc and items outside the month are
// left out.
func BuildMonthGrid[T domain.Dated](year int, month time.Month, items []T, loc *time.Location) MonthGrid[T] {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	grid := MonthGrid[T]{Year: first.Year(), Month: first.Month(), Cells: make([]CalendarCell[T], GridCells)}
	index := make(map[int]int, 31)
	for i := range grid.Cells {
		d := start.AddDate(0, 0, i)
		cell := CalendarCell[T]{Date: d, Day: d.Day(), IsCurrentMonth: d.Month() == first.Month()}
		if cell.IsCurrentMonth {
			index[d.Day()] = i
		}
		grid.Cells[i] = cell
	}

	for _, item := range items {
		y, m, d := item.Date().In(loc).Date()
		if y != first.Year() || m != first.Month() {
			continue
		}
		i := index[d]
		grid.Cells[i].Items = append(grid.Cells[i].Items, item)
	}
	return grid
}

// DaysIn returns the number of days of month in year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
