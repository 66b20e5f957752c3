package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dias221467/Habit_Tracker/internal/services"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GET /activities?limit=N
func (h *ActivityHandler) GetActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	activities, err := h.Service.GetRecentActivities(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err, "Failed to fetch activities")
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
