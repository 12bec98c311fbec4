package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/dmitrijs2005/sumdays/internal/wire"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// SyncStore applies deltas and reads full snapshots.
type SyncStore interface {
	Apply(ctx context.Context, userID string, req *wire.SyncRequest) error
	Fetch(ctx context.Context, userID string) (*wire.FetchResponse, error)
}

// Presigner issues object storage URLs for diary photos.
type Presigner interface {
	PresignUpload(ctx context.Context, userID string) (key, url string, err error)
	PresignDownload(ctx context.Context, userID, key string) (string, error)
}

type Handler struct {
	sync     SyncStore
	photos   Presigner
	log      logging.Logger
	validate *validator.Validate
	timeout  time.Duration
}

func NewHandler(s SyncStore, p Presigner, log logging.Logger, timeout time.Duration) *Handler {
	return &Handler{
		sync:     s,
		photos:   p,
		log:      log,
		validate: validator.New(),
		timeout:  timeout,
	}
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

// Sync handles POST /sync.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var req wire.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	userID := UserID(ctx)
	if err := h.sync.Apply(ctx, userID, &req); err != nil {
		h.log.Error(ctx, "sync failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store changes")
		return
	}

	writeOK(w)
}

// Fetch handles GET /sync.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	userID := UserID(ctx)
	resp, err := h.sync.Fetch(ctx, userID)
	if err != nil {
		h.log.Error(ctx, "fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load data")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// PresignUpload handles POST /photos/presign.
func (h *Handler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	key, url, err := h.photos.PresignUpload(ctx, UserID(ctx))
	if err != nil {
		h.log.Error(ctx, "presign upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to presign upload")
		return
	}

	writeJSON(w, http.StatusOK, wire.PresignResponse{Key: key, URL: url})
}

// PresignDownload handles GET /photos/presign/{key}.
func (h *Handler) PresignDownload(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		writeError(w, http.StatusBadRequest, "photo key is required")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	url, err := h.photos.PresignDownload(ctx, UserID(ctx), key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		h.log.Error(ctx, "presign download failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to presign download")
		return
	}

	writeJSON(w, http.StatusOK, wire.PresignResponse{Key: key, URL: url})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeOK(w)
}
