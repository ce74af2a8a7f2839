package handler

import (
	"encoding/json"
	"net/http"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

type TutorProfileHandler struct {
	profileService ports.TutorProfileService
}

func NewTutorProfileHandler(profiles ports.TutorProfileService) *TutorProfileHandler {
	return &TutorProfileHandler{profileService: profiles}
}

type UpdateBiographyRequest struct {
	Biography string `json:"biography"`
}

type UpdateRatingRequest struct {
	Rating float64 `json:"rating"`
}

func (h *TutorProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if profiles == nil {
		profiles = []domain.TutorProfile{}
	}

	writeJSON(w, http.StatusOK, profiles)
}

func (h *TutorProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.profileService.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *TutorProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.profileService.GetByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *TutorProfileHandler) UpdateBiography(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateBiographyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.UpdateBiography(r.Context(), id, req.Biography)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *TutorProfileHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.UpdateRating(r.Context(), id, req.Rating)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
