package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
)

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write JSON", sl.Err(err))
	}
}

func writeError(log *slog.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(log, w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}
