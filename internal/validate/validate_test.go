package validate

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestIntInRange(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		min     int
		max     int
		want    *int
		wantErr bool
	}{
		{name: "empty is absent", raw: "", min: -2, max: 2, want: nil},
		{name: "whitespace is absent", raw: "  ", min: -2, max: 2, want: nil},
		{name: "lower bound", raw: "-2", min: -2, max: 2, want: intp(-2)},
		{name: "upper bound", raw: "5", min: 0, max: 5, want: intp(5)},
		{name: "below range", raw: "-3", min: -2, max: 2, wantErr: true},
		{name: "above range", raw: "6", min: 0, max: 5, wantErr: true},
		{name: "not a number", raw: "vivid", min: 1, max: 5, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IntInRange("field", tc.raw, tc.min, tc.max)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("want error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"a, a, b ,  , c", []string{"a", "b", "c"}},
		{"forest,lake,forest", []string{"forest", "lake"}},
		{"single", []string{"single"}},
	}
	for _, tc := range cases {
		got := NormalizeList(tc.raw)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("NormalizeList(%q) = %v, want %v", tc.raw, got, tc.want)
		}
		// normalizing a normalized list changes nothing
		again := NormalizeList(strings.Join(got, ","))
		if !reflect.DeepEqual(again, got) {
			t.Fatalf("not idempotent: %v then %v", got, again)
		}
	}
}

func TestSleepMinutes(t *testing.T) {
	cases := []struct {
		start string
		end   string
		want  int
	}{
		{"23:30", "07:15", 465},
		{"23:30", "00:15", 45},
		{"08:00", "08:00", 0},
		{"01:00", "09:00", 480},
	}
	for _, tc := range cases {
		start, err := ParseClock(tc.start)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.start, err)
		}
		end, err := ParseClock(tc.end)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.end, err)
		}
		if got := SleepMinutes(start, end); got != tc.want {
			t.Fatalf("SleepMinutes(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestParseClockRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"25:00", "7:60", "noon", "07-15"} {
		if _, err := ParseClock(raw); err == nil {
			t.Fatalf("ParseClock(%q): want error", raw)
		}
	}
}

func TestAllowedImage(t *testing.T) {
	allowed := []string{"a.png", "b.JPG", "c.jpeg", "d.gif"}
	for _, name := range allowed {
		if !AllowedImage(name) {
			t.Fatalf("AllowedImage(%q) = false, want true", name)
		}
	}
	rejected := []string{"e.bmp", "f.svg", "noext", "g.png.exe"}
	for _, name := range rejected {
		if AllowedImage(name) {
			t.Fatalf("AllowedImage(%q) = true, want false", name)
		}
	}
}

func validForm() DreamForm {
	return DreamForm{
		Date:       "2025-03-10",
		Title:      "Flying",
		Body:       "Over the lake.",
		Location:   "lake, sky",
		Mood:       "2",
		Vividness:  "4",
		SleepStart: "23:30",
		SleepEnd:   "07:15",
	}
}

func TestDreamFormValid(t *testing.T) {
	d, errs := validForm().Dream()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if d.Date != "2025-03-10" || d.Title != "Flying" {
		t.Fatalf("unexpected record: %+v", d)
	}
	if !reflect.DeepEqual(d.Tags["location"], []string{"lake", "sky"}) {
		t.Fatalf("tags: %v", d.Tags)
	}
	if d.SleepMinutes == nil || *d.SleepMinutes != 465 {
		t.Fatalf("sleep minutes: %v", d.SleepMinutes)
	}
	if d.Sound != nil || d.Fatigue != nil {
		t.Fatalf("absent ratings must stay nil: %+v", d)
	}
}

func TestDreamFormBlankDateDefaultsToToday(t *testing.T) {
	f := validForm()
	f.Date = ""
	d, errs := f.Dream()
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if d.Date != time.Now().Format("2006-01-02") {
		t.Fatalf("date: %q", d.Date)
	}
}

func TestDreamFormCollectsErrors(t *testing.T) {
	f := DreamForm{
		Mood:       "7",
		SleepStart: "23:30",
	}
	d, errs := f.Dream()
	if d != nil {
		t.Fatalf("want nil record on errors, got %+v", d)
	}
	joined := strings.Join(errs, "; ")
	for _, want := range []string{"title is required", "body is required", "mood must be an integer between -2 and 2", "sleep start and end must both be set"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %q", want, joined)
		}
	}
}

func TestDreamFormRejectsBadImage(t *testing.T) {
	f := validForm()
	f.ImageFilename = "virus.exe"
	if _, errs := f.Dream(); len(errs) != 1 {
		t.Fatalf("want one image error, got %v", errs)
	}
}

func intp(v int) *int { return &v }
