package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/petergfitz2/athena-ai-sub000/internal/api/middleware"
)

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    Meta        `json:"meta"`
}

// Meta represents metadata in response
type Meta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached,omitempty"`
}

// Success sends a 200 response with data
func Success(w http.ResponseWriter, r *http.Request, data interface{}) {
	write(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    Meta{RequestID: middleware.GetRequestID(r), Timestamp: time.Now()},
	})
}

// Cached sends a 200 response for a result served from cache
func Cached(w http.ResponseWriter, r *http.Request, data interface{}) {
	write(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    Meta{RequestID: middleware.GetRequestID(r), Timestamp: time.Now(), Cached: true},
	})
}

// JSON sends an arbitrary body with the given status
func JSON(w http.ResponseWriter, statusCode int, body interface{}) {
	write(w, statusCode, body)
}

func write(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
