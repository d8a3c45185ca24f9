package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/logger"
)

// RespondJSON writes a JSON response
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Warn("encode_response_failed", zap.Error(err))
	}
}

// RespondError writes an error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}
