// Package storetest runs a behavioral compliance suite against any
// store.Store implementation. Driver packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/yumelog/yumelog/internal/model"
	"github.com/yumelog/yumelog/internal/store"
)

// Factory returns a fresh, migrated, empty store for one subtest.
type Factory func(t *testing.T) store.Store

// Run executes the compliance suite against the given store factory.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateGetRoundtrip", func(t *testing.T) { testCreateGetRoundtrip(t, newStore(t)) })
	t.Run("UpdateReplacesTags", func(t *testing.T) { testUpdateReplacesTags(t, newStore(t)) })
	t.Run("DeleteAndNotFound", func(t *testing.T) { testDeleteAndNotFound(t, newStore(t)) })
	t.Run("SearchText", func(t *testing.T) { testSearchText(t, newStore(t)) })
	t.Run("SearchDateRange", func(t *testing.T) { testSearchDateRange(t, newStore(t)) })
	t.Run("SearchTagTerms", func(t *testing.T) { testSearchTagTerms(t, newStore(t)) })
	t.Run("SearchOrdering", func(t *testing.T) { testSearchOrdering(t, newStore(t)) })
	t.Run("MonthRange", func(t *testing.T) { testMonthRange(t, newStore(t)) })
	t.Run("Averages", func(t *testing.T) { testAverages(t, newStore(t)) })
	t.Run("TagCounts", func(t *testing.T) { testTagCounts(t, newStore(t)) })
	t.Run("TagIndex", func(t *testing.T) { testTagIndex(t, newStore(t)) })
	t.Run("HealthPing", func(t *testing.T) { testHealthPing(t, newStore(t)) })
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func fullDream() *model.Dream {
	return &model.Dream{
		Date:         "2025-03-10",
		Title:        "Flying over the lake",
		Body:         "I was gliding above calm water at dusk.",
		Mood:         intp(2),
		Vividness:    intp(4),
		Sound:        intp(1),
		Fatigue:      intp(0),
		SleepStart:   strp("23:30"),
		SleepEnd:     strp("07:15"),
		SleepMinutes: intp(465),
		Tags: model.TagSet{
			"location": {"lake", "sky"},
			"people":   {"sister"},
			"color":    {"orange"},
		},
	}
}

func mustCreate(t *testing.T, st store.Store, d *model.Dream) *model.Dream {
	t.Helper()
	created, err := st.Dreams().Create(context.Background(), d)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func minimalDream(date, title string) *model.Dream {
	return &model.Dream{Date: date, Title: title, Body: "body of " + title}
}

func testCreateGetRoundtrip(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	created := mustCreate(t, st, fullDream())
	if created.ID == 0 {
		t.Fatalf("expected assigned id, got 0")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := st.Dreams().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Flying over the lake" || got.Date != "2025-03-10" {
		t.Fatalf("unexpected dream: %+v", got)
	}
	if got.Mood == nil || *got.Mood != 2 {
		t.Fatalf("mood not preserved: %v", got.Mood)
	}
	if got.SleepMinutes == nil || *got.SleepMinutes != 465 {
		t.Fatalf("sleep minutes not preserved: %v", got.SleepMinutes)
	}
	want := model.TagSet{
		"location": {"lake", "sky"},
		"people":   {"sister"},
		"color":    {"orange"},
	}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("tags mismatch: got %v want %v", got.Tags, want)
	}
}

func testUpdateReplacesTags(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	created := mustCreate(t, st, fullDream())

	upd := fullDream()
	upd.ID = created.ID
	upd.Title = "Falling"
	upd.Mood = nil
	upd.Tags = model.TagSet{"location": {"forest"}, "smell": {"pine"}}

	got, err := st.Dreams().Update(ctx, upd)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Falling" {
		t.Fatalf("title not updated: %q", got.Title)
	}
	if got.Mood != nil {
		t.Fatalf("mood should be cleared, got %v", *got.Mood)
	}
	want := model.TagSet{"location": {"forest"}, "smell": {"pine"}}
	if !reflect.DeepEqual(got.Tags, want) {
		t.Fatalf("tags not replaced: got %v want %v", got.Tags, want)
	}
}

func testDeleteAndNotFound(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	created := mustCreate(t, st, fullDream())
	if err := st.Dreams().Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := st.Dreams().Get(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get after delete: want ErrNotFound, got %v", err)
	}
	if err := st.Dreams().Delete(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("second Delete: want ErrNotFound, got %v", err)
	}
	missing := fullDream()
	missing.ID = created.ID
	if _, err := st.Dreams().Update(ctx, missing); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update missing: want ErrNotFound, got %v", err)
	}
}

func testSearchText(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	a := minimalDream("2025-03-01", "Ocean voyage")
	a.Body = "Waves everywhere."
	mustCreate(t, st, a)
	b := minimalDream("2025-03-02", "Library")
	b.Body = "Endless shelves by the ocean window."
	mustCreate(t, st, b)
	mustCreate(t, st, minimalDream("2025-03-03", "Desert"))

	got, err := st.Dreams().Search(ctx, model.SearchRequest{Query: "ocean"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 matches in title or body, got %d", len(got))
	}
}

func testSearchDateRange(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	for _, date := range []string{"2025-02-28", "2025-03-01", "2025-03-15", "2025-04-01"} {
		mustCreate(t, st, minimalDream(date, "d "+date))
	}

	got, err := st.Dreams().Search(ctx, model.SearchRequest{From: "2025-03-01", To: "2025-03-31"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 entries in range, got %d", len(got))
	}
	for _, d := range got {
		if d.Date < "2025-03-01" || d.Date > "2025-03-31" {
			t.Fatalf("entry outside range: %s", d.Date)
		}
	}
}

func testSearchTagTerms(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	a := minimalDream("2025-03-01", "a")
	a.Tags = model.TagSet{"location": {"rainforest"}}
	mustCreate(t, st, a)
	b := minimalDream("2025-03-02", "b")
	b.Tags = model.TagSet{"people": {"mother"}}
	mustCreate(t, st, b)
	c := minimalDream("2025-03-03", "c")
	c.Tags = model.TagSet{"color": {"blue"}}
	mustCreate(t, st, c)

	// terms are OR'd and match by substring across categories
	got, err := st.Dreams().Search(ctx, model.SearchRequest{TagTerms: []string{"forest", "mother"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 tag matches, got %d", len(got))
	}
	for _, d := range got {
		if d.Title == "c" {
			t.Fatalf("unexpected match: %q", d.Title)
		}
	}
}

func testSearchOrdering(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	mustCreate(t, st, minimalDream("2025-03-05", "older same day"))
	mustCreate(t, st, minimalDream("2025-03-05", "newer same day"))
	mustCreate(t, st, minimalDream("2025-03-01", "earliest"))
	mustCreate(t, st, minimalDream("2025-03-09", "latest"))

	got, err := st.Dreams().Search(ctx, model.SearchRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	titles := make([]string, 0, len(got))
	for _, d := range got {
		titles = append(titles, d.Title)
	}
	want := []string{"latest", "newer same day", "older same day", "earliest"}
	if !reflect.DeepEqual(titles, want) {
		t.Fatalf("ordering mismatch: got %v want %v", titles, want)
	}
}

func testMonthRange(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	mustCreate(t, st, minimalDream("2025-02-28", "feb"))
	mustCreate(t, st, minimalDream("2025-03-31", "mar end"))
	mustCreate(t, st, minimalDream("2025-03-01", "mar start"))
	mustCreate(t, st, minimalDream("2025-04-01", "apr"))

	got, err := st.Dreams().Month(ctx, "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 entries, got %d", len(got))
	}
	if got[0].Title != "mar start" || got[1].Title != "mar end" {
		t.Fatalf("want ascending date order, got %q then %q", got[0].Title, got[1].Title)
	}
}

func testAverages(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	empty, err := st.Stats().Averages(ctx, "", "")
	if err != nil {
		t.Fatalf("Averages on empty store: %v", err)
	}
	if empty.Mood != nil || empty.Fatigue != nil || empty.SleepMinutes != nil {
		t.Fatalf("want nil averages on empty store, got %+v", empty)
	}

	a := minimalDream("2025-03-01", "a")
	a.Mood, a.Fatigue, a.SleepMinutes = intp(2), intp(4), intp(400)
	mustCreate(t, st, a)
	b := minimalDream("2025-03-02", "b")
	b.Mood, b.SleepMinutes = intp(-1), intp(500)
	mustCreate(t, st, b)
	mustCreate(t, st, minimalDream("2025-04-01", "outside range"))

	got, err := st.Stats().Averages(ctx, "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("Averages: %v", err)
	}
	// nulls are excluded per column, not per row
	if got.Mood == nil || *got.Mood != 0.5 {
		t.Fatalf("mood average: got %v want 0.5", got.Mood)
	}
	if got.Fatigue == nil || *got.Fatigue != 4 {
		t.Fatalf("fatigue average: got %v want 4", got.Fatigue)
	}
	if got.SleepMinutes == nil || *got.SleepMinutes != 450 {
		t.Fatalf("sleep average: got %v want 450", got.SleepMinutes)
	}
}

func testTagCounts(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := minimalDream(fmt.Sprintf("2025-03-0%d", i+1), fmt.Sprintf("d%d", i))
		d.Tags = model.TagSet{"location": {"forest"}}
		if i == 0 {
			d.Tags["location"] = append(d.Tags["location"], "lake")
			d.Tags["people"] = []string{"sister"}
		}
		mustCreate(t, st, d)
	}
	// 12 distinct color tags across one dream each; only 10 survive
	for i := 0; i < 12; i++ {
		d := minimalDream("2025-03-20", fmt.Sprintf("c%d", i))
		d.Tags = model.TagSet{"color": {fmt.Sprintf("shade-%02d", i)}}
		mustCreate(t, st, d)
	}

	got, err := st.Stats().TagCounts(ctx, "", "")
	if err != nil {
		t.Fatalf("TagCounts: %v", err)
	}
	wantLoc := []model.TagCount{{Name: "forest", Count: 3}, {Name: "lake", Count: 1}}
	if !reflect.DeepEqual(got["location"], wantLoc) {
		t.Fatalf("location counts: got %v want %v", got["location"], wantLoc)
	}
	if len(got["color"]) != 10 {
		t.Fatalf("want top 10 colors, got %d", len(got["color"]))
	}
	if len(got["people"]) != 1 || got["people"][0].Count != 1 {
		t.Fatalf("people counts: got %v", got["people"])
	}
}

func testTagIndex(t *testing.T, st store.Store) {
	defer st.Close()
	ctx := context.Background()

	a := minimalDream("2025-03-01", "a")
	a.Tags = model.TagSet{"location": {"lake", "forest"}, "smell": {"pine"}}
	mustCreate(t, st, a)
	b := minimalDream("2025-03-02", "b")
	b.Tags = model.TagSet{"location": {"forest"}}
	mustCreate(t, st, b)

	got, err := st.Tags().Index(ctx)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	want := model.TagSet{"location": {"forest", "lake"}, "smell": {"pine"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("index mismatch: got %v want %v", got, want)
	}
}

func testHealthPing(t *testing.T, st store.Store) {
	defer st.Close()
	if err := st.HealthPing(context.Background()); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}
