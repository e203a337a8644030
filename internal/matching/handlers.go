// internal/matching/handlers.go

package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/auth"
	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matches, err := h.service.FindPotentialMatches(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to find potential matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, matches)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto UpdatePreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, &dto)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto SendBuddyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.service.SendRequest(r.Context(), userID, dto.RecipientID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to send buddy request")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	box := r.URL.Query().Get("type")
	if box == "" {
		box = "all"
	}

	requests, err := h.service.GetRequests(r.Context(), userID, box)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get buddy requests")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, requests)
}

func (h *Handler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var dto RespondBuddyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.service.RespondToRequest(r.Context(), requestID, userID, dto.Status)
	if err != nil {
		h.respondServiceError(w, err, "Failed to respond to buddy request")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, req)
}

func (h *Handler) GetConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	connections, err := h.service.GetConnections(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to get connections")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, connections)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	candidateID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.service.Compatibility(r.Context(), userID, candidateID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to compute compatibility")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// respondServiceError maps domain errors to the API error taxonomy:
// not-found to 404, conflicts to 409, validation to 400, authorization
// to 403, and everything else to 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrActorNotFound), errors.Is(err, ErrRequestNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateRequest), errors.Is(err, ErrAlreadyResponded):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrCannotRequestSelf), errors.Is(err, ErrInvalidResponse), errors.Is(err, ErrInvalidAgeRange):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotRecipient):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
