// Package api is the HTTP transport layer: routing, form decoding and
// server-rendered templates.
package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/yumelog/yumelog/internal/model"
	"github.com/yumelog/yumelog/internal/service"
	"github.com/yumelog/yumelog/internal/validate"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler renders the journal pages (thin transport layer).
type Handler struct {
	svc  *service.Service
	tmpl *template.Template
}

// NewHandler parses the embedded templates and creates the page handler.
func NewHandler(svc *service.Service) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"moodClass":   MoodClass,
		"fmtSleep":    FormatSleepMinutes,
		"fmtSleepAvg": formatSleepAverage,
		"fmtAvg":      formatAverage,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{svc: svc, tmpl: tmpl}, nil
}

// render executes a page template into a buffer first so a template error
// never produces a half-written response.
func (h *Handler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template execution failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// pathID extracts the numeric entry identifier; the route regex guarantees
// digits.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// dreamFormFromRequest copies the submitted fields verbatim so a failed
// validation can re-render them unchanged.
func dreamFormFromRequest(r *http.Request) validate.DreamForm {
	return validate.DreamForm{
		Date:       r.FormValue("date"),
		Title:      r.FormValue("title"),
		Body:       r.FormValue("body"),
		Location:   r.FormValue("location"),
		People:     r.FormValue("people"),
		Thing:      r.FormValue("thing"),
		Color:      r.FormValue("color"),
		Smell:      r.FormValue("smell"),
		Mood:       r.FormValue("mood"),
		Vividness:  r.FormValue("vividness"),
		Sound:      r.FormValue("sound"),
		Fatigue:    r.FormValue("fatigue"),
		SleepStart: r.FormValue("sleep_start"),
		SleepEnd:   r.FormValue("sleep_end"),
	}
}

// uploadFromRequest returns the image upload, if any. The caller owns the
// returned close function.
func uploadFromRequest(r *http.Request) (*service.Upload, func()) {
	file, header, err := r.FormFile("image")
	if err != nil || header.Filename == "" {
		return nil, func() {}
	}
	return &service.Upload{File: file, Filename: header.Filename}, func() { _ = file.Close() }
}

// dreamFormFromModel prefills the edit form from a stored entry.
func dreamFormFromModel(d *model.Dream) validate.DreamForm {
	f := validate.DreamForm{
		Date:     d.Date,
		Title:    d.Title,
		Body:     d.Body,
		Location: d.Tags.Join("location"),
		People:   d.Tags.Join("people"),
		Thing:    d.Tags.Join("thing"),
		Color:    d.Tags.Join("color"),
		Smell:    d.Tags.Join("smell"),
	}
	f.Mood = optIntString(d.Mood)
	f.Vividness = optIntString(d.Vividness)
	f.Sound = optIntString(d.Sound)
	f.Fatigue = optIntString(d.Fatigue)
	if d.SleepStart != nil {
		f.SleepStart = *d.SleepStart
	}
	if d.SleepEnd != nil {
		f.SleepEnd = *d.SleepEnd
	}
	return f
}

func optIntString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// FormatSleepMinutes renders a derived sleep duration as "7h 05m", or "-"
// when absent.
func FormatSleepMinutes(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	return fmt.Sprintf("%dh %02dm", *minutes/60, *minutes%60)
}

func formatSleepAverage(v *float64) string {
	if v == nil {
		return "-"
	}
	m := int(math.Round(*v))
	return FormatSleepMinutes(&m)
}

func formatAverage(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// MoodClass maps a mood rating to its display class.
func MoodClass(mood *int) string {
	if mood == nil || *mood < -2 || *mood > 2 {
		return "mood-none"
	}
	return fmt.Sprintf("mood-%d", *mood)
}
