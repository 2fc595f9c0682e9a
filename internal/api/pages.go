package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yumelog/yumelog/internal/model"
	"github.com/yumelog/yumelog/internal/service"
	"github.com/yumelog/yumelog/internal/validate"
)

// formPage backs both the create and edit forms. ID is zero on create.
type formPage struct {
	Form   validate.DreamForm
	Errors []string
	Action string
	ID     int64
}

type detailPage struct {
	Dream      *model.Dream
	Categories []string
}

type searchPage struct {
	Dreams []*model.Dream
	Query  string
	From   string
	To     string
	Tag    string
}

type statsPage struct {
	*service.StatsView
	Categories []string
}

type tagsPage struct {
	Tags       model.TagSet
	Categories []string
}

// Home sends the landing request to the entry form.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dreams/new", http.StatusFound)
}

// Calendar renders the month grid for the ym=YYYY-MM cursor, defaulting to
// the current month.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.CalendarMonth(r.Context(), r.URL.Query().Get("ym"))
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "calendar.html", view)
}

// Search lists entries matching the q, from, to and tag query parameters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := searchPage{
		Query: q.Get("q"),
		From:  q.Get("from"),
		To:    q.Get("to"),
		Tag:   q.Get("tag"),
	}
	dreams, err := h.svc.Search(r.Context(), page.Query, page.From, page.To, page.Tag)
	if err != nil {
		h.serverError(w, err)
		return
	}
	page.Dreams = dreams
	h.render(w, "index.html", page)
}

// NewDream shows the empty entry form. A date query parameter (set by
// calendar cell links) prefills the date field.
func (h *Handler) NewDream(w http.ResponseWriter, r *http.Request) {
	h.render(w, "new.html", formPage{
		Form:   validate.DreamForm{Date: r.URL.Query().Get("date")},
		Action: "/dreams/new",
	})
}

// CreateDream persists a submission, or re-renders the form with messages
// when validation fails.
func (h *Handler) CreateDream(w http.ResponseWriter, r *http.Request) {
	form := dreamFormFromRequest(r)
	image, closeUpload := uploadFromRequest(r)
	defer closeUpload()

	d, errs, err := h.svc.CreateDream(r.Context(), form, image)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if len(errs) > 0 {
		h.render(w, "new.html", formPage{Form: form, Errors: errs, Action: "/dreams/new"})
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/dreams/%d", d.ID), http.StatusSeeOther)
}

// Detail shows a single entry.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDream(r.Context(), pathID(r))
	if err != nil {
		h.dreamError(w, r, err)
		return
	}
	h.render(w, "detail.html", detailPage{Dream: d, Categories: model.TagCategories})
}

// EditDream shows the form prefilled from the stored entry.
func (h *Handler) EditDream(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	d, err := h.svc.GetDream(r.Context(), id)
	if err != nil {
		h.dreamError(w, r, err)
		return
	}
	h.render(w, "edit.html", formPage{
		Form:   dreamFormFromModel(d),
		Action: fmt.Sprintf("/dreams/%d/edit", id),
		ID:     id,
	})
}

// UpdateDream rewrites an entry in place, or re-renders the edit form with
// messages when validation fails.
func (h *Handler) UpdateDream(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	form := dreamFormFromRequest(r)
	image, closeUpload := uploadFromRequest(r)
	defer closeUpload()

	d, errs, err := h.svc.UpdateDream(r.Context(), id, form, image)
	if err != nil {
		h.dreamError(w, r, err)
		return
	}
	if len(errs) > 0 {
		h.render(w, "edit.html", formPage{
			Form:   form,
			Errors: errs,
			Action: fmt.Sprintf("/dreams/%d/edit", id),
			ID:     id,
		})
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/dreams/%d", d.ID), http.StatusSeeOther)
}

// DeleteDream removes an entry and returns to the calendar.
func (h *Handler) DeleteDream(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDream(r.Context(), pathID(r)); err != nil {
		h.dreamError(w, r, err)
		return
	}
	http.Redirect(w, r, "/dreams", http.StatusSeeOther)
}

// Stats renders averages and tag frequencies over an optional date range.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.svc.Stats(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "stats.html", statsPage{StatsView: view, Categories: model.TagCategories})
}

// Tags renders every distinct tag grouped by category.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.TagIndex(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "tags.html", tagsPage{Tags: tags, Categories: model.TagCategories})
}

func (h *Handler) dreamError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.serverError(w, err)
}
