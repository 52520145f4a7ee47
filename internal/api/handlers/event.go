package handlers

import (
	"net/http"

	"github.com/0xAdem/ransomguard/internal/api/utils"
	"github.com/0xAdem/ransomguard/internal/models"
	"github.com/0xAdem/ransomguard/internal/store"
)

// EventService handles file-event read operations
type EventService struct {
	Repo *store.Repository
}

// NewEventService creates a new event service
func NewEventService(repo *store.Repository) *EventService {
	return &EventService{Repo: repo}
}

// GetEventsHandler returns file events, most recent first
func GetEventsHandler(svc *EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", 50)

		events := svc.Repo.ListEvents(skip, limit)
		if events == nil {
			events = []models.FileEvent{}
		}
		utils.SendJSON(w, http.StatusOK, events)
	}
}
