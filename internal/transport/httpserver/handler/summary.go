package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	obligationdomain "subtrack/internal/domain/obligation"
	summarydomain "subtrack/internal/domain/summary"
	"subtrack/internal/transport/httpserver/middleware"
)

type summaryResponse struct {
	Kind  string `json:"kind"`
	Total string `json:"total"`
	Goal  string `json:"goal"`
	Delta string `json:"delta"`
}

type setGoalRequest struct {
	Goal string `json:"goal"`
}

func toSummaryResponse(overview summarydomain.Overview) summaryResponse {
	return summaryResponse{
		Kind:  string(overview.Kind),
		Total: overview.Total.StringFixed(2),
		Goal:  overview.Goal.StringFixed(2),
		Delta: overview.Delta.StringFixed(2),
	}
}

func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	overview, err := h.Summaries.Overview(r.Context(), userID, kind)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("summary.get: rejected", err, "user_id", userID)
			return
		}
		h.log.InternalError("summary.get: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(overview))
}

func (h *Handlers) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	kind, ok := obligationdomain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind", "kind must be subscription or contract")
		return
	}

	overview, err := h.Summaries.Overview(r.Context(), userID, kind)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("goals.get: rejected", err, "user_id", userID)
			return
		}
		h.log.InternalError("goals.get: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(overview))
}

func (h *Handlers) SetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	kind, ok := obligationdomain.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_kind", "kind must be subscription or contract")
		return
	}

	var req setGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	goal, err := decimal.NewFromString(req.Goal)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_amount_format", "goal must be a decimal number")
		return
	}

	if kind == obligationdomain.KindContract {
		_, err = h.Users.SetContractGoal(r.Context(), userID, goal)
	} else {
		_, err = h.Users.SetSubscriptionGoal(r.Context(), userID, goal)
	}
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("summary.set_goal: rejected", err, "user_id", userID)
			return
		}
		h.log.InternalError("summary.set_goal: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	overview, err := h.Summaries.Overview(r.Context(), userID, kind)
	if err != nil {
		h.log.InternalError("summary.set_goal: reload failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toSummaryResponse(overview))
}
