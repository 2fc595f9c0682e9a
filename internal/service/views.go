package service

import (
	"context"
	"time"

	"github.com/yumelog/yumelog/internal/calendar"
	"github.com/yumelog/yumelog/internal/model"
)

// DayCell is one calendar cell. First is the earliest-created entry of the
// date, shown as the cell summary; Count is the number of entries that day.
type DayCell struct {
	Date    time.Time
	InMonth bool
	Today   bool
	Count   int
	First   *model.Dream
}

// MonthView is the calendar page view model.
type MonthView struct {
	Year   int
	Month  time.Month
	Weeks  [][]DayCell
	PrevYM string
	NextYM string
}

// StatsView is the statistics page view model.
type StatsView struct {
	Averages  *model.Averages
	TagCounts map[string][]model.TagCount
	From      string
	To        string
}

// CalendarMonth builds the calendar view for a YYYY-MM cursor. A blank or
// malformed cursor falls back to the current month.
func (s *Service) CalendarMonth(ctx context.Context, ym string) (*MonthView, error) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if ym != "" {
		if t, err := time.Parse("2006-01", ym); err == nil {
			year, month = t.Year(), t.Month()
		}
	}

	first, last := calendar.MonthBounds(year, month)
	entries, err := s.store.Dreams().Month(ctx, first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	firstByDate := make(map[string]*model.Dream)
	for _, d := range entries {
		counts[d.Date]++
		if _, ok := firstByDate[d.Date]; !ok {
			firstByDate[d.Date] = d
		}
	}

	today := now.Format("2006-01-02")
	var weeks [][]DayCell
	for _, week := range calendar.MonthGrid(year, month) {
		cells := make([]DayCell, 0, len(week))
		for _, day := range week {
			key := day.Format("2006-01-02")
			cells = append(cells, DayCell{
				Date:    day,
				InMonth: day.Month() == month,
				Today:   key == today,
				Count:   counts[key],
				First:   firstByDate[key],
			})
		}
		weeks = append(weeks, cells)
	}

	prev, next := calendar.Cursors(year, month)
	return &MonthView{Year: year, Month: month, Weeks: weeks, PrevYM: prev, NextYM: next}, nil
}

// Stats aggregates averages and tag frequencies over an optional inclusive
// date range.
func (s *Service) Stats(ctx context.Context, from, to string) (*StatsView, error) {
	avgs, err := s.store.Stats().Averages(ctx, from, to)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Stats().TagCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &StatsView{Averages: avgs, TagCounts: counts, From: from, To: to}, nil
}
