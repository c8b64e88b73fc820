package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	obligationdomain "subtrack/internal/domain/obligation"
	methoddomain "subtrack/internal/domain/paymentmethod"
	"subtrack/internal/transport/httpserver/middleware"
)

type paymentMethodRequest struct {
	Name    string `json:"name"`
	Form    string `json:"form"`
	DueDate string `json:"due_date"`
}

type paymentMethodResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Form    string `json:"form"`
	DueDate string `json:"due_date,omitempty"`
}

func toPaymentMethodResponse(m methoddomain.PaymentMethod) paymentMethodResponse {
	response := paymentMethodResponse{
		ID:   m.ID,
		Name: m.Name,
		Form: string(m.Form),
	}
	if m.DueDate != nil {
		response.DueDate = m.DueDate.Format(obligationdomain.DueDateLayout)
	}
	return response
}

func parseMethodDueDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse(obligationdomain.DueDateLayout, value)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func (h *Handlers) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	methods, err := h.PaymentMethods.List(r.Context(), userID)
	if err != nil {
		h.log.InternalError("payment_methods.list: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]paymentMethodResponse, 0, len(methods))
	for _, method := range methods {
		response = append(response, toPaymentMethodResponse(method))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req paymentMethodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	dueDate, ok := parseMethodDueDate(req.DueDate)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_date_format", "due_date must be dd/mm/yyyy")
		return
	}

	created, err := h.PaymentMethods.Create(r.Context(), methoddomain.CreateInput{
		UserID:  userID,
		Name:    req.Name,
		Form:    req.Form,
		DueDate: dueDate,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("payment_methods.create: rejected", err, "user_id", userID)
			return
		}
		h.log.InternalError("payment_methods.create: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentMethodResponse(*created))
}

func (h *Handlers) UpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := chi.URLParam(r, "id")

	var req paymentMethodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	dueDate, ok := parseMethodDueDate(req.DueDate)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_date_format", "due_date must be dd/mm/yyyy")
		return
	}

	updated, err := h.PaymentMethods.Update(r.Context(), methoddomain.UpdateInput{
		UserID:  userID,
		ID:      id,
		Name:    req.Name,
		Form:    req.Form,
		DueDate: dueDate,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("payment_methods.update: rejected", err, "user_id", userID, "method_id", id)
			return
		}
		h.log.InternalError("payment_methods.update: failed", err, "user_id", userID, "method_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toPaymentMethodResponse(*updated))
}

func (h *Handlers) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.PaymentMethods.Delete(r.Context(), userID, id); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("payment_methods.delete: rejected", err, "user_id", userID, "method_id", id)
			return
		}
		h.log.InternalError("payment_methods.delete: failed", err, "user_id", userID, "method_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
