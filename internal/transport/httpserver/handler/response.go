package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	obligationdomain "subtrack/internal/domain/obligation"
	methoddomain "subtrack/internal/domain/paymentmethod"
	userdomain "subtrack/internal/domain/user"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps known domain errors to HTTP responses. It reports
// whether the error was handled; unhandled errors are internal.
func writeDomainError(w http.ResponseWriter, err error) bool {
	var validation *obligationdomain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, string(validation.Kind), validation.Message)
		return true
	}

	switch {
	case errors.Is(err, obligationdomain.ErrNotFound):
		writeError(w, http.StatusNotFound, "obligation_not_found", err.Error())
	case errors.Is(err, obligationdomain.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, obligationdomain.ErrNotRemovable):
		writeError(w, http.StatusConflict, "not_removable", err.Error())
	case errors.Is(err, obligationdomain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, obligationdomain.ErrSelfShare):
		writeError(w, http.StatusBadRequest, "self_share", err.Error())
	case errors.Is(err, obligationdomain.ErrCannotReopen):
		writeError(w, http.StatusConflict, "cannot_reopen", err.Error())
	case errors.Is(err, userdomain.ErrNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, userdomain.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, userdomain.ErrNegativeGoal):
		writeError(w, http.StatusBadRequest, "negative_goal", err.Error())
	case errors.Is(err, methoddomain.ErrNotFound):
		writeError(w, http.StatusNotFound, "payment_method_not_found", err.Error())
	case errors.Is(err, methoddomain.ErrNameTaken):
		writeError(w, http.StatusConflict, "payment_method_name_taken", err.Error())
	case errors.Is(err, methoddomain.ErrBadForm):
		writeError(w, http.StatusBadRequest, "unknown_payment_form", err.Error())
	case errors.Is(err, methoddomain.ErrInUse):
		writeError(w, http.StatusConflict, "payment_method_in_use", err.Error())
	default:
		return false
	}
	return true
}
