package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/gorilla/mux"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"github.com/sirupsen/logrus"
)

// HabitHandler handles HTTP requests related to habits.
type HabitHandler struct {
	Service *services.HabitService
}

// NewHabitHandler creates a new instance of HabitHandler.
func NewHabitHandler(service *services.HabitService) *HabitHandler {
	return &HabitHandler{Service: service}
}

// CreateHabitHandler handles POST /habits.
func (h *HabitHandler) CreateHabitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.CreateHabitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logger.Log.WithError(err).Warn("Invalid request payload during habit creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	habit, err := h.Service.CreateHabit(r.Context(), userID, input)
	if err != nil {
		writeError(w, err, "Failed to create habit")
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"userID":  userID.Hex(),
		"habitID": habit.ID.Hex(),
	}).Info("Habit successfully created")
	writeJSON(w, http.StatusCreated, habit)
}

// GetHabitsHandler handles GET /habits.
func (h *HabitHandler) GetHabitsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	habits, err := h.Service.GetHabits(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to fetch habits")
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

// MarkHabitDoneHandler handles PUT /habits/{id}/complete.
func (h *HabitHandler) MarkHabitDoneHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	result, err := h.Service.MarkHabitDone(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "Failed to mark habit")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ResetHabitHandler handles PUT /habits/{id}/reset.
func (h *HabitHandler) ResetHabitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	habit, err := h.Service.ResetHabit(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "Failed to reset habit")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// DeleteHabitHandler handles DELETE /habits/{id}.
func (h *HabitHandler) DeleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteHabit(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err, "Failed to delete habit")
		return
	}
	writeMessage(w, http.StatusOK, "Habit deleted")
}

// GetMissedDaysHandler handles GET /habits/{id}/missed.
func (h *HabitHandler) GetMissedDaysHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	missed, err := h.Service.GetMissedDays(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, "Failed to count missed days")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"missedDays": missed})
}
