// Package validate converts raw form input into typed, bounded values.
package validate

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yumelog/yumelog/internal/model"
)

// DreamForm carries the raw string fields of a dream submission exactly as
// the user typed them, so a failed submission can be re-rendered unchanged.
type DreamForm struct {
	Date       string
	Title      string
	Body       string
	Location   string
	People     string
	Thing      string
	Color      string
	Smell      string
	Mood       string
	Vividness  string
	Sound      string
	Fatigue    string
	SleepStart string
	SleepEnd   string

	// ImageFilename is the original name of an uploaded file, empty when the
	// submission carries no upload.
	ImageFilename string
}

// IntInRange parses an optional bounded integer field. An empty value is
// absent, not an error; anything else must parse as an integer within the
// inclusive range.
func IntInRange(field, raw string, min, max int) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return nil, fmt.Errorf("%s must be an integer between %d and %d", field, min, max)
	}
	return &n, nil
}

// NormalizeList splits a comma-separated value, trims each item, drops
// empties and duplicates, and preserves first-seen order. Normalizing an
// already-normalized list is a no-op.
func NormalizeList(raw string) []string {
	var items []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		items = append(items, item)
	}
	return items
}

// ParseClock parses a 24-hour HH:MM value into minutes since midnight.
func ParseClock(raw string) (int, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("sleep times must use 24-hour HH:MM format")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SleepMinutes derives the sleep duration from two minutes-since-midnight
// values, treating end-before-start as an overnight session.
func SleepMinutes(start, end int) int {
	if end < start {
		end += 24 * 60
	}
	return end - start
}

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// AllowedImage reports whether the filename carries an accepted image
// extension (case-insensitive).
func AllowedImage(filename string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(filename))]
}

// Dream validates and normalizes a form submission. It returns either a
// record ready for persistence or a non-empty list of field-level error
// messages, never both. The returned record has no ID or timestamps; the
// store assigns those.
func (f DreamForm) Dream() (*model.Dream, []string) {
	var errs []string
	d := &model.Dream{
		Title: strings.TrimSpace(f.Title),
		Body:  strings.TrimSpace(f.Body),
	}
	if d.Title == "" {
		errs = append(errs, "title is required")
	}
	if d.Body == "" {
		errs = append(errs, "body is required")
	}

	d.Date = strings.TrimSpace(f.Date)
	if d.Date == "" {
		d.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", d.Date); err != nil {
		errs = append(errs, "date must use YYYY-MM-DD format")
	}

	var err error
	if d.Mood, err = IntInRange("mood", f.Mood, -2, 2); err != nil {
		errs = append(errs, err.Error())
	}
	if d.Vividness, err = IntInRange("vividness", f.Vividness, 1, 5); err != nil {
		errs = append(errs, err.Error())
	}
	if d.Sound, err = IntInRange("sound", f.Sound, 0, 5); err != nil {
		errs = append(errs, err.Error())
	}
	if d.Fatigue, err = IntInRange("fatigue", f.Fatigue, 0, 5); err != nil {
		errs = append(errs, err.Error())
	}

	d.Tags = model.TagSet{}
	for category, raw := range map[string]string{
		"location": f.Location,
		"people":   f.People,
		"thing":    f.Thing,
		"color":    f.Color,
		"smell":    f.Smell,
	} {
		if items := NormalizeList(raw); len(items) > 0 {
			d.Tags[category] = items
		}
	}

	errs = append(errs, f.sleepInto(d)...)

	if f.ImageFilename != "" && !AllowedImage(f.ImageFilename) {
		errs = append(errs, "images must be png, jpg, jpeg or gif")
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return d, nil
}

// sleepInto validates the sleep time pair and derives sleep minutes.
// Both times must be present or both absent; minutes are recomputed on every
// save and never carried over from a previous submission.
func (f DreamForm) sleepInto(d *model.Dream) []string {
	start := strings.TrimSpace(f.SleepStart)
	end := strings.TrimSpace(f.SleepEnd)
	if start == "" && end == "" {
		return nil
	}

	var errs []string
	var startMin, endMin int
	startOK, endOK := start != "", end != ""
	var err error
	if startOK {
		if startMin, err = ParseClock(start); err != nil {
			errs = append(errs, err.Error())
			startOK = false
		}
	}
	if endOK {
		if endMin, err = ParseClock(end); err != nil {
			// one format message covers both fields
			if len(errs) == 0 {
				errs = append(errs, err.Error())
			}
			endOK = false
		}
	}
	if start == "" || end == "" {
		errs = append(errs, "sleep start and end must both be set")
	}
	if len(errs) > 0 {
		return errs
	}
	if startOK && endOK {
		minutes := SleepMinutes(startMin, endMin)
		d.SleepStart = &start
		d.SleepEnd = &end
		d.SleepMinutes = &minutes
	}
	return nil
}
