package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

var errTest = errors.New("vendor rejected")

// buildTestRouter собирает роутер с публичным API поверх фейков.
func buildTestRouter(lock *fakeLock) (http.Handler, Store) {
	store := NewMemoryStore()
	svc := NewService(store, lock, newFakeMailer(nil), &stubRenderer{})
	router := mux.NewRouter().StrictSlash(true)
	RegisterRoutes(router, NewHandler(svc))
	return router, store
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var out map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	return rr, out
}

func TestReserveRangeEndpoint(t *testing.T) {
	h, store := buildTestRouter(&fakeLock{pin: "204060", pwdID: "42"})

	rr, out := doJSON(t, h, http.MethodPost, "/reserve-range",
		`{"startDate":"2024-07-01","endDate":"2024-07-03","time":"14:00","name":"Max","email":"max@example.com","phone":"123","price":25}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if out["success"] != true {
		t.Fatalf("expected success:true, got %v", out)
	}
	if out["pin"] != "204060" {
		t.Fatalf("expected pin in response, got %v", out["pin"])
	}
	orderID, _ := out["orderId"].(string)
	if !strings.HasPrefix(orderID, "CR-") {
		t.Fatalf("expected CR- order id, got %q", orderID)
	}

	rows, _ := store.ListActive(context.Background())
	if len(rows) != 1 || rows[0].Code != orderID {
		t.Fatalf("reservation not persisted correctly: %+v", rows)
	}
}

func TestReserveRangeValidation(t *testing.T) {
	h, store := buildTestRouter(&fakeLock{pin: "1", pwdID: "1"})

	for _, body := range []string{
		`{`, // битый JSON
		`{"startDate":"2024-07-01","endDate":"2024-07-03","name":"Max","email":"not-an-email"}`,
		`{"startDate":"01.07.2024","endDate":"2024-07-03","name":"Max","email":"max@example.com"}`,
		`{"endDate":"2024-07-03","name":"Max","email":"max@example.com"}`,
		`{"startDate":"2024-07-10","endDate":"2024-07-03","name":"Max","email":"max@example.com"}`,
	} {
		rr, out := doJSON(t, h, http.MethodPost, "/reserve-range", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rr.Code)
		}
		if out["success"] != false {
			t.Errorf("body %s: expected success:false", body)
		}
	}
	rows, _ := store.ListActive(context.Background())
	if len(rows) != 0 {
		t.Fatalf("invalid requests must not create reservations, got %d", len(rows))
	}
}

func TestReserveRangeLockFailure(t *testing.T) {
	h, store := buildTestRouter(&fakeLock{err: errTest})

	rr, out := doJSON(t, h, http.MethodPost, "/reserve-range",
		`{"startDate":"2024-07-01","endDate":"2024-07-03","name":"Max","email":"max@example.com"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if out["success"] != false {
		t.Fatalf("expected success:false, got %v", out)
	}
	rows, _ := store.ListActive(context.Background())
	if len(rows) != 0 {
		t.Fatal("failed reserve must not persist anything")
	}
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	h, store := buildTestRouter(&fakeLock{pin: "1", pwdID: "1"})

	rr, out := doJSON(t, h, http.MethodPost, "/check-availability",
		`{"startDate":"2024-08-01","endDate":"2024-08-05"}`)
	if rr.Code != http.StatusOK || out["available"] != true {
		t.Fatalf("empty store must be available: %d %v", rr.Code, out)
	}

	_, _ = doJSON(t, h, http.MethodPost, "/reserve-range",
		`{"startDate":"2024-08-01","endDate":"2024-08-05","name":"Max","email":"max@example.com"}`)
	rows, _ := store.ListActive(context.Background())
	if len(rows) != 1 {
		t.Fatalf("setup failed: %d rows", len(rows))
	}

	_, out = doJSON(t, h, http.MethodPost, "/check-availability",
		`{"startDate":"2024-08-05","endDate":"2024-08-10"}`)
	if out["available"] != false {
		t.Fatalf("inclusive boundary overlap must report unavailable: %v", out)
	}
}

func TestValidationErrorsUseFieldNames(t *testing.T) {
	h, _ := buildTestRouter(&fakeLock{pin: "1", pwdID: "1"})

	rr, out := doJSON(t, h, http.MethodPost, "/reserve-range",
		`{"startDate":"2024-07-01","endDate":"2024-07-03","name":"Max","email":"not-an-email"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	msg, _ := out["error"].(string)
	// наружу уходят имена json-полей, не внутренних типов
	if strings.Contains(msg, "reserveRequest") || strings.Contains(msg, "Email") {
		t.Fatalf("internal identifiers leaked into error message: %q", msg)
	}
	if !strings.Contains(msg, "email") {
		t.Fatalf("expected field-level message about email, got %q", msg)
	}
}
