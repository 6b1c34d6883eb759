package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bibbank/demoscore/internal/application/dto"
	"github.com/bibbank/demoscore/internal/application/usecase"
	"github.com/bibbank/demoscore/internal/domain/model"
)

// ScoreGenerator is the use case behind the score endpoint.
type ScoreGenerator interface {
	Execute(ctx context.Context, req dto.GenerateScoreRequest) (dto.ScoreResponse, error)
}

// ScoreHandler serves the demo score endpoints.
type ScoreHandler struct {
	generator    ScoreGenerator
	logger       *slog.Logger
	maxBodyBytes int64
}

// NewScoreHandler creates the score HTTP handler. Request bodies larger than
// maxBodyBytes are rejected with 413.
func NewScoreHandler(generator ScoreGenerator, maxBodyBytes int64, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		generator:    generator,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// RegisterRoutes attaches the score routes to the given mux. The score
// paths take every method so that non-POST requests get a plain-text 405.
func (h *ScoreHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/score", h.score)
	mux.HandleFunc("/.netlify/functions/score", h.score)
	mux.HandleFunc("GET /api/score/demo-payload", h.demoPayload)
}

func (h *ScoreHandler) score(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = io.WriteString(w, "Method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large",
				fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.generator.Execute(r.Context(), dto.GenerateScoreRequest{
		RequestID: RequestIDFromContext(r.Context()),
		Body:      body,
	})
	if err != nil {
		if usecase.IsMalformed(err) {
			writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "score request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoreHandler) demoPayload(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.FeaturePayloadFromModel(model.DemoFeatureSet()))
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg, Detail: detail})
}
