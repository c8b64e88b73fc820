package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	obligationdomain "subtrack/internal/domain/obligation"
	"subtrack/internal/transport/httpserver/middleware"
)

type obligationRequest struct {
	Kind          string `json:"kind,omitempty"`
	Name          string `json:"name"`
	Amount        string `json:"amount"`
	DueDate       string `json:"due_date"`
	Periodicity   string `json:"periodicity"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	SharedWith    string `json:"shared_with"`
	Login         string `json:"login"`
	Password      string `json:"password"`
	Favorite      bool   `json:"favorite"`
	Status        string `json:"status"`
}

type shareRequest struct {
	Email string `json:"email"`
}

type obligationResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Name          string    `json:"name"`
	Amount        string    `json:"amount"`
	DueDate       string    `json:"due_date"`
	Periodicity   string    `json:"periodicity"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	SharedWith    string    `json:"shared_with,omitempty"`
	Login         string    `json:"login,omitempty"`
	Password      string    `json:"password,omitempty"`
	Favorite      bool      `json:"favorite"`
	Status        string    `json:"status"`
	ReadOnly      bool      `json:"read_only"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toObligationResponse(o obligationdomain.Obligation) obligationResponse {
	return obligationResponse{
		ID:            o.ID,
		Kind:          string(o.Kind),
		Name:          o.Name,
		Amount:        o.Amount.StringFixed(2),
		DueDate:       o.DueDate.Format(obligationdomain.DueDateLayout),
		Periodicity:   string(o.Periodicity),
		Category:      o.Category,
		PaymentMethod: o.PaymentMethodName,
		SharedWith:    o.SharedWith,
		Login:         o.Login,
		Password:      o.Password,
		Favorite:      o.Favorite,
		Status:        string(o.Status),
		ReadOnly:      o.ReadOnly,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toRawFields(req obligationRequest) obligationdomain.RawFields {
	return obligationdomain.RawFields{
		Name:          req.Name,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		Periodicity:   req.Periodicity,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		SharedWith:    req.SharedWith,
		Login:         req.Login,
		Password:      req.Password,
		Favorite:      req.Favorite,
		Status:        req.Status,
	}
}

// kindFromQuery defaults to subscription so the main listing works without
// parameters.
func kindFromQuery(r *http.Request) (obligationdomain.Kind, bool) {
	value := r.URL.Query().Get("kind")
	if value == "" {
		return obligationdomain.KindSubscription, true
	}
	return obligationdomain.ParseKind(value)
}

func (h *Handlers) ListObligations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	kind, ok := kindFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind", "kind must be subscription or contract")
		return
	}

	records, err := h.Obligations.ListForUser(r.Context(), userID, kind)
	if err != nil {
		h.log.InternalError("obligations.list: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]obligationResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toObligationResponse(record))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateObligation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req obligationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	kind, ok := obligationdomain.ParseKind(req.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind", "kind must be subscription or contract")
		return
	}

	created, err := h.Obligations.Create(r.Context(), userID, kind, toRawFields(req))
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("obligations.create: rejected", err, "user_id", userID)
			return
		}
		h.log.InternalError("obligations.create: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toObligationResponse(*created))
}

func (h *Handlers) UpdateObligation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := chi.URLParam(r, "id")

	var req obligationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Obligations.Edit(r.Context(), userID, id, toRawFields(req))
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("obligations.update: rejected", err, "user_id", userID, "obligation_id", id)
			return
		}
		h.log.InternalError("obligations.update: failed", err, "user_id", userID, "obligation_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toObligationResponse(*updated))
}

func (h *Handlers) DeleteObligation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.Obligations.Remove(r.Context(), userID, id); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("obligations.delete: rejected", err, "user_id", userID, "obligation_id", id)
			return
		}
		h.log.InternalError("obligations.delete: failed", err, "user_id", userID, "obligation_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ToggleObligationFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := chi.URLParam(r, "id")

	updated, err := h.Obligations.ToggleFavorite(r.Context(), userID, id)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("obligations.favorite: rejected", err, "user_id", userID, "obligation_id", id)
			return
		}
		h.log.InternalError("obligations.favorite: failed", err, "user_id", userID, "obligation_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toObligationResponse(*updated))
}

func (h *Handlers) ShareObligation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := chi.URLParam(r, "id")

	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Obligations.Share(r.Context(), userID, id, req.Email); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("obligations.share: rejected", err, "user_id", userID, "obligation_id", id)
			return
		}
		h.log.InternalError("obligations.share: failed", err, "user_id", userID, "obligation_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnshareObligation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	id := chi.URLParam(r, "id")
	targetID := chi.URLParam(r, "target_id")

	if err := h.Obligations.Unshare(r.Context(), userID, id, targetID); err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("obligations.unshare: rejected", err, "user_id", userID, "obligation_id", id)
			return
		}
		h.log.InternalError("obligations.unshare: failed", err, "user_id", userID, "obligation_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListObligationCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind", "kind must be subscription or contract")
		return
	}
	writeJSON(w, http.StatusOK, obligationdomain.Categories(kind))
}
