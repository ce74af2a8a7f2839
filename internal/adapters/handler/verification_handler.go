package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/enseniamelo/tutor-verification-service/internal/core/domain"
	"github.com/enseniamelo/tutor-verification-service/internal/core/ports"
)

type VerificationHandler struct {
	verificationService ports.VerificationService
}

func NewVerificationHandler(verification ports.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verification}
}

type SubmitVerificationRequest struct {
	UserID        int64    `json:"user_id"`
	EvidencePhoto string   `json:"foto_ci"`
	Comment       string   `json:"comment,omitempty"`
	Documents     []string `json:"documents,omitempty"`
}

type DecisionRequest struct {
	Comment string `json:"comment,omitempty"`
}

func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.verificationService.Submit(r.Context(), ports.SubmitVerificationInput{
		UserID:        req.UserID,
		EvidencePhoto: req.EvidencePhoto,
		Comment:       req.Comment,
		Documents:     req.Documents,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List serves GET /verifications and honors an optional ?state= filter.
func (h *VerificationHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		requests []domain.VerificationRequest
		err      error
	)
	if raw := r.URL.Query().Get("state"); raw != "" {
		requests, err = h.verificationService.ListByState(r.Context(), domain.RequestState(raw))
	} else {
		requests, err = h.verificationService.ListAll(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if requests == nil {
		requests = []domain.VerificationRequest{}
	}

	writeJSON(w, http.StatusOK, requests)
}

func (h *VerificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	req, err := h.verificationService.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *VerificationHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	req, err := h.verificationService.GetByUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *VerificationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.verificationService.Approve)
}

func (h *VerificationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.verificationService.Reject)
}

func (h *VerificationHandler) decide(w http.ResponseWriter, r *http.Request,
	decideFn func(ctx context.Context, id int64, comment string) (*domain.VerificationRequest, error)) {

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
	}

	decided, err := decideFn(r.Context(), id, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decided)
}

func (h *VerificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.verificationService.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
