package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/0xAdem/ransomguard/internal/api/utils"
	"github.com/0xAdem/ransomguard/internal/auth"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest is the payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterHandler creates a new dashboard user
func RegisterHandler(authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.SendErrorResponse(w, utils.NewAPIError("Invalid request body", http.StatusBadRequest))
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			utils.SendErrorResponse(w, utils.NewAPIError("A valid email is required", http.StatusBadRequest))
			return
		}
		if len(req.Password) < 8 {
			utils.SendErrorResponse(w, utils.NewAPIError("Password must be at least 8 characters", http.StatusBadRequest))
			return
		}

		user, err := authSvc.CreateUser(req.Email, req.Password, req.FirstName, req.LastName)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				utils.SendErrorResponse(w, utils.NewAPIError("Email already registered", http.StatusBadRequest))
				return
			}
			utils.SendErrorResponse(w, utils.NewAPIError("Failed to create user", http.StatusInternalServerError))
			return
		}

		utils.SendJSON(w, http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and issues a JWT
func LoginHandler(authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.SendErrorResponse(w, utils.NewAPIError("Invalid request body", http.StatusBadRequest))
			return
		}

		user, err := authSvc.AuthenticateUser(strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
		if err != nil {
			utils.SendErrorResponse(w, utils.NewAPIError("Incorrect email or password", http.StatusUnauthorized))
			return
		}

		token, err := authSvc.GenerateToken(user)
		if err != nil {
			utils.SendErrorResponse(w, utils.NewAPIError("Failed to issue token", http.StatusInternalServerError))
			return
		}

		utils.SendJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// ProfileHandler returns the authenticated user
func ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromContext(r.Context())
		if err != nil {
			utils.SendErrorResponse(w, utils.NewAPIError("User not authenticated", http.StatusUnauthorized))
			return
		}
		utils.SendJSON(w, http.StatusOK, user)
	}
}
