package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"drillpay/middleware"
	"drillpay/models"
	"drillpay/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type BundleHandler struct {
	store *store.Store
}

func NewBundleHandler(s *store.Store) *BundleHandler {
	return &BundleHandler{store: s}
}

func (h *BundleHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	status := models.BundleStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "status must be submitted or paid")
		return
	}

	bundles, err := h.store.Bundles(user.ID, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list bundles")
		return
	}
	respondJSON(w, http.StatusOK, bundles)
}

func (h *BundleHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}

	bundle, err := h.store.BundleByID(user.ID, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "bundle not found")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to load bundle")
		return
	}
	respondJSON(w, http.StatusOK, bundle)
}

type submitBundleRequest struct {
	FiledDate string `json:"filed_date"`
}

// Submit bundles the caller's oldest 3.0 unbundled hours into a new record.
// Holding fewer than 3.0 unbundled hours is not an error: the response
// reports created=false and nothing changes.
func (h *BundleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req submitBundleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	filedDate, err := parseWorkDate(req.FiledDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bundle, err := h.store.SubmitBundle(user.ID, filedDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to submit bundle")
		return
	}
	if bundle == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"created": false})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"created": true,
		"bundle":  bundle,
	})
}

type setStatusRequest struct {
	Status models.BundleStatus `json:"status"`
}

func (h *BundleHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "status must be submitted or paid")
		return
	}

	bundle, err := h.store.SetBundleStatus(user.ID, id, req.Status)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "bundle not found")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to update bundle")
		return
	}
	respondJSON(w, http.StatusOK, bundle)
}

func (h *BundleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "invalid bundle id")
		return
	}

	err := h.store.DeleteBundle(user.ID, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "bundle not found")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to delete bundle")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *BundleHandler) Balance(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	hours, available, err := h.store.Balance(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute balance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"unbundled_hours":   hours,
		"available_bundles": available,
	})
}

func (h *BundleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	hours, available, err := h.store.Balance(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	counts, err := h.store.StatusCounts(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"unbundled_hours":   hours,
		"available_bundles": available,
		"submitted":         counts[models.StatusSubmitted],
		"paid":              counts[models.StatusPaid],
	})
}
