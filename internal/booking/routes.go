package booking

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/check-availability", h.CheckAvailability).Methods(http.MethodPost)
	r.HandleFunc("/reserve-range", h.Reserve).Methods(http.MethodPost)
}
