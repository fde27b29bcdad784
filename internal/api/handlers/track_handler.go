package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/heritagecrafts/platform/backend/internal/application/services"
	"github.com/heritagecrafts/platform/backend/internal/domain/entities"
)

// TrackHandler handles behavior tracking HTTP requests
type TrackHandler struct {
	behaviorService *services.BehaviorService
}

// NewTrackHandler creates a new tracking handler
func NewTrackHandler(behaviorService *services.BehaviorService) *TrackHandler {
	return &TrackHandler{
		behaviorService: behaviorService,
	}
}

type trackClickRequest struct {
	UserID     string `json:"user_id,omitempty"`
	ResultID   string `json:"result_id"`
	ResultType string `json:"result_type"`
	Query      string `json:"query,omitempty"`
	Position   int    `json:"position,omitempty"`
}

// TrackClick handles POST /api/track/click
func (h *TrackHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	var req trackClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.behaviorService.TrackClick(r.Context(), req.UserID, req.ResultID,
		entities.EntityType(req.ResultType), req.Query, req.Position)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "tracked"})
}

type trackEventRequest struct {
	UserID     string            `json:"user_id,omitempty"`
	EventType  string            `json:"event_type"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// TrackEvent handles POST /api/track/event
func (h *TrackHandler) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var req trackEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.behaviorService.TrackEvent(r.Context(), &entities.BehaviorEvent{
		UserID:     req.UserID,
		EventType:  req.EventType,
		EntityType: entities.EntityType(req.EntityType),
		EntityID:   req.EntityID,
		Metadata:   req.Metadata,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "tracked"})
}
