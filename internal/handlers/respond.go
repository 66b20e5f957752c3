package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/Dias221467/Habit_Tracker/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Warn("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps service errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrOutsideWindow),
		errors.Is(err, services.ErrAlreadyDone),
		errors.Is(err, services.ErrInsufficientPoints):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Log.WithError(err).Error(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

// currentUserID returns the authenticated user's ID, writing a 401 when
// the request carries none.
func currentUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logger.Log.WithField("user_id", claims.UserID).Warn("Token carries an invalid user ID")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	return userID, true
}
