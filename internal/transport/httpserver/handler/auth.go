package handler

import (
	"net/http"
	"time"

	userdomain "subtrack/internal/domain/user"
	"subtrack/internal/transport/httpserver/middleware"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type userResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	SubscriptionGoal string `json:"subscription_goal"`
	ContractGoal     string `json:"contract_goal"`
}

func toUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		SubscriptionGoal: u.SubscriptionGoal.StringFixed(2),
		ContractGoal:     u.ContractGoal.StringFixed(2),
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("auth.register: rejected", err)
			return
		}
		h.log.InternalError("auth.register: failed", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	h.writeToken(w, http.StatusCreated, created)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("auth.login: rejected", err)
			return
		}
		h.log.InternalError("auth.login: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	h.writeToken(w, http.StatusOK, record)
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	record, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("auth.me: user missing", err, "user_id", userID)
			return
		}
		h.log.InternalError("auth.me: failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(record))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Users.UpdateProfile(r.Context(), userID, userdomain.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("auth.update_profile: rejected", err, "user_id", userID)
			return
		}
		h.log.InternalError("auth.update_profile: failed", err, "user_id", userID)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) writeToken(w http.ResponseWriter, status int, record *userdomain.User) {
	token, expiresAt, err := h.auth.GenerateToken(record.ID)
	if err != nil {
		h.log.InternalError("auth: sign token failed", err, "user_id", record.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, status, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(record),
	})
}
