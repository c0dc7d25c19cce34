package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cartlock/internal/logs"
	"cartlock/internal/models"
)

type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	v := validator.New()
	// в сообщениях об ошибках — имена json-полей, не Go-структур
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{svc: svc, validate: v}
}

// validationMessage переводит первую ошибку валидатора в ответ
// для клиента, не выдавая наружу внутренние имена типов.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	f := verrs[0]
	switch f.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", f.Field())
	case "datetime":
		return fmt.Sprintf("%s must match format %s", f.Field(), f.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", f.Field(), f.Param())
	default:
		return fmt.Sprintf("%s is invalid", f.Field())
	}
}

type availabilityRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate"   validate:"required,datetime=2006-01-02"`
}

type reserveRequest struct {
	StartDate string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"endDate"   validate:"required,datetime=2006-01-02"`
	Time      string  `json:"time"      validate:"omitempty,datetime=15:04"`
	Name      string  `json:"name"      validate:"required"`
	Email     string  `json:"email"     validate:"required,email"`
	Phone     string  `json:"phone"`
	Price     float64 `json:"price"     validate:"gte=0"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	models.WriteJSON(w, status, map[string]any{"success": false, "error": msg})
}

// POST /check-availability
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	free, err := h.svc.CheckAvailability(r.Context(), req.StartDate, req.EndDate)
	if err != nil {
		logs.Logger.Errorf("check-availability [%s..%s]: %v", req.StartDate, req.EndDate, err)
		writeError(w, http.StatusInternalServerError, "availability check failed")
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"available": free})
}

// POST /reserve-range
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	res, err := h.svc.Reserve(r.Context(), ReserveInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Time:      req.Time,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Price:     req.Price,
	})
	if err != nil {
		if errors.Is(err, ErrBadRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logs.Logger.Errorf("reserve [%s..%s] for %s: %v", req.StartDate, req.EndDate, req.Email, err)
		writeError(w, http.StatusInternalServerError, "reservation failed")
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"pin":     res.Pin,
		"orderId": res.Code,
	})
}
