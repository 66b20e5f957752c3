package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Habit_Tracker/internal/services"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
)

// RewardHandler exposes the reward catalog, daily settlement and claims.
type RewardHandler struct {
	Service *services.RewardService
}

func NewRewardHandler(service *services.RewardService) *RewardHandler {
	return &RewardHandler{Service: service}
}

// GET /rewards
func (h *RewardHandler) GetRewardsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Catalog())
}

// GET /rewards/update-points
func (h *RewardHandler) UpdatePointsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	result, err := h.Service.SettleDailyPoints(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to update points")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /rewards/claim
func (h *RewardHandler) ClaimRewardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		RewardID string `json:"rewardId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RewardID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result, err := h.Service.ClaimReward(r.Context(), userID, req.RewardID)
	if err != nil {
		writeError(w, err, "Failed to claim reward")
		return
	}

	logger.Log.WithField("user_id", userID.Hex()).Infof("Reward %s claimed", req.RewardID)
	writeJSON(w, http.StatusOK, result)
}

// GET /rewards/claimed
func (h *RewardHandler) GetClaimedRewardsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	claimed, err := h.Service.GetClaimedRewards(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to fetch claimed rewards")
		return
	}
	writeJSON(w, http.StatusOK, claimed)
}
