package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/sumdays/internal/wire"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, wire.SyncResponse{Status: wire.StatusError, Message: message})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, wire.SyncResponse{Status: wire.StatusSuccess, Message: "ok"})
}
