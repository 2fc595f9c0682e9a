package model

import (
	"strings"
	"time"
)

// TagCategories lists the fixed sensory attribute groups in display order.
var TagCategories = []string{"location", "people", "thing", "color", "smell"}

// TagSet maps a tag category to its ordered, de-duplicated names.
type TagSet map[string][]string

// Join renders one category as a comma-joined list for display and form
// redisplay.
func (t TagSet) Join(category string) string {
	return strings.Join(t[category], ", ")
}

// Dream is one journal entry.
type Dream struct {
	ID           int64     `json:"id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Mood         *int      `json:"mood,omitempty"`       // -2..2
	Vividness    *int      `json:"vividness,omitempty"`  // 1..5
	Sound        *int      `json:"sound,omitempty"`      // 0..5
	Fatigue      *int      `json:"fatigue,omitempty"`    // 0..5
	SleepStart   *string   `json:"sleepStart,omitempty"` // HH:MM
	SleepEnd     *string   `json:"sleepEnd,omitempty"`   // HH:MM
	SleepMinutes *int      `json:"sleepMinutes,omitempty"`
	ImagePath    *string   `json:"imagePath,omitempty"`
	Tags         TagSet    `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SearchRequest captures the optional filters used when listing dreams.
// Active filters compose with AND; tag terms are OR'd with each other.
type SearchRequest struct {
	Query    string   // case-insensitive substring over title and body
	From     string   // inclusive lower date bound, YYYY-MM-DD
	To       string   // inclusive upper date bound, YYYY-MM-DD
	TagTerms []string // each term substring-matched against tag names in every category
}

// TagCount is one aggregated tag-frequency row.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Averages holds mean values over a filtered set. A field is nil when no row
// in the set carries that value.
type Averages struct {
	Mood         *float64 `json:"mood,omitempty"`
	Fatigue      *float64 `json:"fatigue,omitempty"`
	SleepMinutes *float64 `json:"sleepMinutes,omitempty"`
}
