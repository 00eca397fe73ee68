package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vkarpov/authkeeper/internal/common"
	"github.com/vkarpov/authkeeper/internal/server/models"
)

// --------- DTOs ---------

type signUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// response is the envelope every endpoint writes, mirroring the public API
// contract: success flag, stable message, optional violation list, token,
// and the public account view. The password hash is never part of it.
type response struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Errors  []string           `json:"errors,omitempty"`
	Token   string             `json:"token,omitempty"`
	User    *models.PublicUser `json:"user,omitempty"`
}

// --------- Handlers ---------

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in signUpRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.users.SignUp(r.Context(), in.Email, in.Password, in.FirstName, in.LastName)
	if err != nil {
		var validationErr *common.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeJSON(w, http.StatusBadRequest, response{
				Message: validationErr.Message,
				Errors:  validationErr.Violations,
			})
		case errors.Is(err, common.ErrorConflict):
			errorJSON(w, http.StatusConflict, "User with that email already exists")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "User successfully created",
		Token:   result.Token,
		User:    &result.User,
	})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			errorJSON(w, http.StatusNotFound, "User doesn't exist")
		case errors.Is(err, common.ErrInvalidCredentials):
			errorJSON(w, http.StatusBadRequest, "Invalid password, please try again")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "User successfully logged in",
		Token:   result.Token,
		User:    &result.User,
	})
}

func (s *HTTPServer) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var in changePasswordRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := s.users.ChangePassword(r.Context(), token, in.CurrentPassword, in.NewPassword)
	if err != nil {
		var validationErr *common.ValidationError
		switch {
		case errors.Is(err, common.ErrorUnauthenticated):
			errorJSON(w, http.StatusUnauthorized, "Invalid or expired token")
		case errors.Is(err, common.ErrorNotFound):
			errorJSON(w, http.StatusNotFound, "User not found")
		case errors.Is(err, common.ErrIncorrectPassword):
			errorJSON(w, http.StatusBadRequest, "Current password is incorrect")
		case errors.As(err, &validationErr):
			writeJSON(w, http.StatusBadRequest, response{
				Message: validationErr.Message,
				Errors:  validationErr.Violations,
			})
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Password changed successfully",
	})
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "No token provided")
		return
	}

	err := s.users.DeleteAccount(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthenticated):
			errorJSON(w, http.StatusUnauthorized, "Invalid or expired token")
		case errors.Is(err, common.ErrorNotFound):
			errorJSON(w, http.StatusNotFound, "User not found")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Account deleted successfully",
	})
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// --------- utils ---------

// internalError hides the underlying failure from the caller; the detail is
// logged server-side only.
func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	errorJSON(w, http.StatusInternalServerError, "Internal server error")
}

// bearerToken extracts the raw token from the Authorization header. The
// second return value is false when no token was supplied.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
