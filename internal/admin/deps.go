package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"cartlock/internal/booking"
)

type Dependencies struct {
	Store    booking.Store
	Lock     booking.LockGateway
	Password string // общий админ-пароль (x-admin-password)
}

func Attach(r *mux.Router, d Dependencies) {
	h := &Handler{d: d, t: parseTemplates()}

	// страница и статика — без пароля, сами данные страница тянет
	// через JSON API с заголовком
	r.HandleFunc("/admin", h.Page).Methods(http.MethodGet)
	r.HandleFunc("/admin/static/style.css", serveCSS).Methods(http.MethodGet)
	r.HandleFunc("/admin/static/app.js", serveJS).Methods(http.MethodGet)

	// api
	sub := r.PathPrefix("/admin/reservations").Subrouter()
	sub.Use(passwordAuth(d.Password))
	sub.HandleFunc("", h.List).Methods(http.MethodGet)
	sub.HandleFunc("/bulk", h.BulkDelete).Methods(http.MethodDelete)
	sub.HandleFunc("/{id:[0-9]+}/archive", h.Archive).Methods(http.MethodPost)
	sub.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}
