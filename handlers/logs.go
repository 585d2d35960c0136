package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"drillpay/middleware"
	"drillpay/models"
	"drillpay/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type LogHandler struct {
	store *store.Store
}

func NewLogHandler(s *store.Store) *LogHandler {
	return &LogHandler{store: s}
}

func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var bundled *bool
	switch r.URL.Query().Get("bundled") {
	case "":
	case "true":
		v := true
		bundled = &v
	case "false":
		v := false
		bundled = &v
	default:
		respondError(w, http.StatusBadRequest, "bundled must be true or false")
		return
	}

	entries, err := h.store.Entries(user.ID, bundled)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req logEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hours, start, end, note, err := req.build()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := models.LogEntry{
		UserID: user.ID,
		Hours:  hours,
		Start:  start,
		End:    end,
		Note:   note,
	}
	if err := h.store.CreateEntry(&entry); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create entry")
		return
	}
	respondJSON(w, http.StatusCreated, &entry)
}

func (h *LogHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var req logEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hours, start, end, note, err := req.build()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.store.UpdateEntry(user.ID, id, hours, start, end, note)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "entry not found")
		return
	case errors.Is(err, store.ErrLocked):
		respondError(w, http.StatusConflict, "entry is locked by a bundle")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to update entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		respondError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	err := h.store.DeleteEntry(user.ID, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "entry not found")
		return
	case errors.Is(err, store.ErrLocked):
		respondError(w, http.StatusConflict, "entry is locked by a bundle")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *LogHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	entries, err := h.store.Entries(user.ID, nil)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to export entries")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=training_log.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Date", "Start", "End", "Hours", "Note", "Bundled"})
	for _, entry := range entries {
		bundled := ""
		if entry.BundleID != nil {
			bundled = *entry.BundleID
		}
		startClock, endClock := "", ""
		if !entry.Start.Equal(entry.End) {
			startClock = entry.Start.Format("15:04")
			endClock = entry.End.Format("15:04")
		}
		writer.Write([]string{
			entry.Start.Format("2006-01-02"),
			startClock,
			endClock,
			fmt.Sprintf("%.2f", entry.Hours),
			entry.Note,
			bundled,
		})
	}
}
