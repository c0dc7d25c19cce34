package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cartlock/internal/logs"
	"cartlock/internal/models"
	"cartlock/internal/repo"
)

type Handler struct {
	d Dependencies
	t pageTemplates
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	t, ok := h.t[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ---------- Page ----------

func (h *Handler) Page(w http.ResponseWriter, _ *http.Request) {
	h.render(w, "reservations.tmpl", map[string]any{"Title": "Reservations"})
}

// ---------- API ----------

// GET /admin/reservations — активные брони, новые сверху.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.d.Store.ListActive(r.Context())
	if err != nil {
		logs.Logger.Errorf("admin: list reservations: %v", err)
		models.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "list failed",
		})
		return
	}
	if rows == nil {
		rows = []models.Reservation{}
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

// POST /admin/reservations/{id}/archive — мягкое удаление: код замка
// отзываем best-effort, запись остаётся в истории.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	rec, err := h.d.Store.ByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		// повторный архив — no-op
		models.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	if err != nil {
		logs.Logger.Errorf("admin: archive %d: %v", id, err)
		models.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "archive failed",
		})
		return
	}
	if rec.KeyboardPwdID != "" {
		h.d.Lock.DeletePasscode(r.Context(), rec.KeyboardPwdID)
	}
	rec.Archived = true
	if err := h.d.Store.Save(r.Context(), rec); err != nil {
		logs.Logger.Errorf("admin: archive %d: %v", id, err)
		models.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "archive failed",
		})
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DELETE /admin/reservations/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	rec, err := h.d.Store.ByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	if err != nil {
		logs.Logger.Errorf("admin: delete %d: %v", id, err)
		models.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "delete failed",
		})
		return
	}
	if rec.KeyboardPwdID != "" {
		h.d.Lock.DeletePasscode(r.Context(), rec.KeyboardPwdID)
	}
	if err := h.d.Store.Delete(r.Context(), id); err != nil {
		logs.Logger.Errorf("admin: delete %d: %v", id, err)
		models.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "delete failed",
		})
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DELETE /admin/reservations/bulk — без отзыва кодов: они сами
// истекут по своему окну.
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success": false, "error": "invalid JSON body",
		})
		return
	}
	if err := h.d.Store.BulkDelete(r.Context(), req.IDs); err != nil {
		logs.Logger.Errorf("admin: bulk delete %v: %v", req.IDs, err)
		models.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "bulk delete failed",
		})
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func pathID(r *http.Request) uint {
	n, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(n)
}
