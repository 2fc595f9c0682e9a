package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yumelog/yumelog/internal/api/recovery"
	"github.com/yumelog/yumelog/internal/service"
	"github.com/yumelog/yumelog/internal/store"
)

// NewRouter wires every route of the journal. uploadDir is served read-only
// under /uploads/ for entry images.
func NewRouter(svc *service.Service, st store.Store, uploadDir string) (*mux.Router, error) {
	h, err := NewHandler(svc)
	if err != nil {
		return nil, err
	}
	health := NewHealthHandler(st)

	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	router.HandleFunc("/", h.Home).Methods(http.MethodGet)
	router.HandleFunc("/dreams", h.Calendar).Methods(http.MethodGet)
	router.HandleFunc("/dreams/new", h.NewDream).Methods(http.MethodGet)
	router.HandleFunc("/dreams/new", h.CreateDream).Methods(http.MethodPost)
	router.HandleFunc("/dreams/{id:[0-9]+}", h.Detail).Methods(http.MethodGet)
	router.HandleFunc("/dreams/{id:[0-9]+}/edit", h.EditDream).Methods(http.MethodGet)
	router.HandleFunc("/dreams/{id:[0-9]+}/edit", h.UpdateDream).Methods(http.MethodPost)
	router.HandleFunc("/dreams/{id:[0-9]+}/delete", h.DeleteDream).Methods(http.MethodPost)
	router.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	router.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	router.HandleFunc("/tags", h.Tags).Methods(http.MethodGet)

	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	router.HandleFunc("/api/health", health.CheckHealth).Methods(http.MethodGet)

	return router, nil
}
