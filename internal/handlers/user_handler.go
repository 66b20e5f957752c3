package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/config"
	"github.com/Dias221467/Habit_Tracker/internal/services"
	jwtutil "github.com/Dias221467/Habit_Tracker/pkg/jwt"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode user registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.Service.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, user.Public())
}

// LoginUserHandler handles user login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		writeError(w, err, "Failed to log in")
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	logger.Log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// GetMeHandler returns the profile of the authenticated user.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to fetch user")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// ChangePasswordHandler replaces the authenticated user's password.
func (h *UserHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode change password request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err, "Failed to change password")
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}
