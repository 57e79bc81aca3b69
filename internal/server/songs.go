package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songs/internal/services"
	"github.com/desertthunder/songs/internal/shared"
)

// Response messages. Clients match on these, so they must not change.
const (
	msgNotInteger      = "Page and limit must be integers."
	msgNotPositive     = "Page and limit must be greater than zero."
	msgNoSongs         = "No songs found"
	msgSongNotFound    = "Song not found"
	msgInvalidRating   = "Invalid request. Please provide a valid rating."
	msgRatingRange     = "Rating must be an integer between 0 and 5."
	msgSongIDNotFound  = "Song ID not found."
	msgRatingUpdated   = "Rating updated successfully."
	msgPersistFailed   = "Failed to persist rating."
	msgTooManyRequests = "Too many requests."
	msgInternal        = "Internal server error."
)

const (
	routeList   = "GET /songs"
	routeByName = "GET /songs/title/{title}"
	routeRating = "PUT /songs/{id}/rating"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// SongsHandler serves listing, title lookup and rating updates.
type SongsHandler struct {
	catalog services.Catalog
}

// NewSongsHandler creates a [SongsHandler] backed by catalog.
func NewSongsHandler(catalog services.Catalog) *SongsHandler {
	return &SongsHandler{catalog: catalog}
}

// Routes returns the HTTP routes this handler serves.
func (h *SongsHandler) Routes() []string {
	return []string{routeList, routeByName, routeRating}
}

// ServeHTTP dispatches on the matched route pattern.
func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case routeList:
		h.list(w, r)
	case routeByName:
		h.findByTitle(w, r)
	case routeRating:
		h.updateRating(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SongsHandler) list(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())

	query := r.URL.Query()
	page, limit := strconv.Itoa(services.DefaultPage), strconv.Itoa(services.DefaultLimit)
	if query.Has("page") {
		page = query.Get("page")
	}
	if query.Has("limit") {
		limit = query.Get("limit")
	}

	p, l, err := services.ParsePageParams(page, limit)
	switch {
	case errors.Is(err, shared.ErrParameterNotInteger):
		logger.Warn("page and limit must be integers", "page", page, "limit", limit)
		writeError(w, http.StatusBadRequest, msgNotInteger)
		return
	case err != nil:
		logger.Warn("page and limit must be greater than zero", "page", page, "limit", limit)
		writeError(w, http.StatusBadRequest, msgNotPositive)
		return
	}

	result, err := h.catalog.ListPage(r.Context(), p, l)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		logger.Warn("no songs found", "page", p, "limit", l)
		writeError(w, http.StatusNotFound, msgNoSongs)
		return
	case err != nil:
		logger.Error("failed to list songs", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if result.OutOfBounds != nil {
		logger.Warn("page exceeds dataset bounds", "page", p, "limit", l, "max_page", result.OutOfBounds.MaxPage)
		writeJSON(w, http.StatusOK, result.OutOfBounds)
		return
	}

	logger.Info("listed songs", "page", p, "limit", l, "count", len(result.Songs))
	writeJSON(w, http.StatusOK, result.Songs)
}

func (h *SongsHandler) findByTitle(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	title := r.PathValue("title")

	songs, err := h.catalog.FindByTitle(r.Context(), title)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		logger.Warn("song not found", "title", title)
		writeError(w, http.StatusNotFound, msgSongNotFound)
		return
	case err != nil:
		logger.Error("failed to find song", "title", title, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	logger.Info("found songs", "title", title, "count", len(songs))
	writeJSON(w, http.StatusOK, songs)
}

func (h *SongsHandler) updateRating(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context())
	id := r.PathValue("id")

	rating, err := decodeRating(r)
	if err == nil {
		err = h.catalog.UpdateRating(r.Context(), id, rating)
	}

	switch {
	case err == nil:
		logger.Info("rating updated", "id", id, "rating", rating)
		writeJSON(w, http.StatusOK, messageResponse{Message: msgRatingUpdated})
	case errors.Is(err, shared.ErrInvalidInput):
		logger.Warn("invalid rating request", "id", id, "error", err)
		writeError(w, http.StatusBadRequest, msgInvalidRating)
	case errors.Is(err, shared.ErrInvalidRange):
		logger.Warn("rating out of range", "id", id, "error", err)
		writeError(w, http.StatusBadRequest, msgRatingRange)
	case errors.Is(err, shared.ErrNotFound):
		logger.Warn("song id not found", "id", id)
		writeError(w, http.StatusNotFound, msgSongIDNotFound)
	default:
		logger.Error("failed to persist rating", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgPersistFailed)
	}
}

// decodeRating reads the "rating" member of a JSON object body. Numbers stay [json.Number] so
// integer and fractional values can be told apart.
func decodeRating(r *http.Request) (any, error) {
	var body map[string]any

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, errors.Join(shared.ErrInvalidInput, err)
	}

	rating, ok := body["rating"]
	if !ok {
		return nil, shared.ErrInvalidInput
	}
	return rating, nil
}

// HealthHandler reports liveness and the catalog size.
type HealthHandler struct {
	catalog services.Catalog
}

// NewHealthHandler creates a [HealthHandler].
func NewHealthHandler(catalog services.Catalog) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	count := h.catalog.Count()
	log.FromContext(r.Context()).Info("health check", "songs", count)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "songs": count})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
